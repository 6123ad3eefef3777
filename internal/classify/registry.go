package classify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned by New for names not in the registry.
var ErrUnknownStrategy = errors.New("unknown strategy")

// registry maps strategy names to constructors. Order here fixes the
// construction order of NewAll.
var registry = []struct {
	name string
	make func(Deps) Strategy
}{
	{"tiered", func(d Deps) Strategy { return NewTiered(d) }},
	{"narrative", func(d Deps) Strategy { return NewNarrative(d) }},
	{"baseline", func(d Deps) Strategy { return NewBaseline(d) }},
}

// Names returns the registered strategy names in construction order.
func Names() []string {
	out := make([]string, len(registry))
	for i, r := range registry {
		out[i] = r.name
	}
	return out
}

// New constructs the named strategy. Names match case-insensitively.
func New(name string, deps Deps) (Strategy, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, r := range registry {
		if r.name == needle {
			return r.make(deps), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// NewAll constructs one instance of every registered strategy. deps is
// called once per strategy so each gets its own code table and client.
func NewAll(deps func() Deps) []Strategy {
	out := make([]Strategy, len(registry))
	for i, r := range registry {
		out[i] = r.make(deps())
	}
	return out
}
