package classify

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
	"github.com/abhisek/mcceval/internal/parse"
)

// Narrative sends one richly-instructed prose prompt and parses the
// sectioned free-text reply. Against an unavailable service it falls back
// to regex pattern matching on the name, which covers far more business
// types than plain keyword scoring.
type Narrative struct {
	deps     Deps
	fallback *Fallback
}

// NewNarrative builds the narrative strategy.
func NewNarrative(deps Deps) *Narrative {
	return &Narrative{
		deps: deps,
		fallback: &Fallback{
			Table:              deps.Table,
			DefaultCode:        parse.FallbackCode,
			DefaultDescription: parse.FallbackDescription,
		},
	}
}

func (s *Narrative) Name() string { return "narrative" }

func (s *Narrative) Classify(ctx context.Context, q Query) (Decision, error) {
	if strings.TrimSpace(q.SubjectName) == "" {
		return s.defaultDecision(q), nil
	}

	if s.deps.Provider == nil {
		return s.patternClassify(q), nil
	}

	resp, err := s.deps.Provider.Generate(llm.WithPurpose(ctx, "narrative-classify"), llm.Request{
		System:      narrativeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: s.prompt(q)}},
		MaxTokens:   1500,
		Temperature: 0.1,
	})
	if err != nil {
		logging.Logger.Errorw("narrative classification failed, using pattern fallback",
			"subject", q.SubjectName, "error", err)
		return s.patternClassify(q), nil
	}

	r := parse.FreeText(resp.Text(), s.deps.Table)
	d := Decision{
		Code:         r.Code,
		Description:  r.Description,
		Confidence:   r.Confidence,
		Alternatives: r.Alternatives,
		Rationale:    r.Rationale,
		Industry:     r.Industry,
	}
	d.finalize(q, s.deps.Table)
	return d, nil
}

func (s *Narrative) defaultDecision(q Query) Decision {
	d := Decision{
		Code:        parse.FallbackCode,
		Description: parse.FallbackDescription,
		Confidence:  0.5,
		Rationale:   "Default classification due to missing merchant name.",
		Alternatives: []Alternative{
			{Code: "5399", Description: "Miscellaneous General Merchandise", Confidence: 0.3},
			{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.2},
		},
	}
	d.finalize(q, s.deps.Table)
	return d
}

// namePattern maps a business-type regex to its category.
type namePattern struct {
	re         *regexp.Regexp
	code       string
	desc       string
	confidence float64
}

var namePatterns = []namePattern{
	{regexp.MustCompile(`\b(restaurant|cafe|café|coffee|bistro|pizzeria|grill|diner|eatery)\b`), "5812", "Eating Places and Restaurants", 0.9},
	{regexp.MustCompile(`\b(fast food|burger|taco|sandwich)\b`), "5814", "Fast Food Restaurants", 0.9},
	{regexp.MustCompile(`\b(grocery|market|supermarket|supermercado|groceries)\b`), "5411", "Grocery Stores and Supermarkets", 0.9},
	{regexp.MustCompile(`\b(convenience|mini mart|corner store)\b`), "5499", "Miscellaneous Food Stores", 0.85},
	{regexp.MustCompile(`\b(electronics|computer|laptop|phone|mobile)\b`), "5732", "Electronics Stores", 0.85},
	{regexp.MustCompile(`\b(clothing|apparel|fashion|garment)\b`), "5651", "Family Clothing Stores", 0.85},
	{regexp.MustCompile(`\b(hardware|tool|home improvement)\b`), "5251", "Hardware Stores", 0.85},
	{regexp.MustCompile(`\b(furniture|mattress|sofa)\b`), "5712", "Furniture and Home Furnishings Stores", 0.85},
	{regexp.MustCompile(`\b(shoe|footwear|sneaker|boot)\b`), "5661", "Shoe Stores", 0.9},
	{regexp.MustCompile(`\b(salon|barber|hair|nails?|spa)\b`), "7230", "Barber and Beauty Shops", 0.9},
	{regexp.MustCompile(`\b(auto|car|vehicle|mechanic|automotive)\b`), "7538", "Automotive Service Shops", 0.9},
	{regexp.MustCompile(`\b(repair|fix|mend)\b`), "7699", "Miscellaneous Repair Shops", 0.8},
	{regexp.MustCompile(`\b(hotel|motel|inn|lodging)\b`), "7011", "Lodging - Hotels, Motels, Resorts", 0.9},
	{regexp.MustCompile(`\b(clean|cleaning|janitorial|maid|laundry)\b`), "7349", "Cleaning and Janitorial Services", 0.85},
	{regexp.MustCompile(`\b(doctor|physician|medical|clinic|health)\b`), "8011", "Doctors and Physicians", 0.9},
	{regexp.MustCompile(`\b(dentist|dental|orthodont)\b`), "8021", "Dentists and Orthodontists", 0.9},
	{regexp.MustCompile(`\b(law|attorney|legal|lawyer)\b`), "8111", "Legal Services and Attorneys", 0.9},
	{regexp.MustCompile(`\b(consult|consulting|advisor)\b`), "7392", "Management and Consulting Services", 0.8},
	{regexp.MustCompile(`\b(insurance|policy|coverage)\b`), "6300", "Insurance Sales and Underwriting", 0.85},
	{regexp.MustCompile(`\b(pet|animal|veterinar)\b`), "5995", "Pet Shops and Supplies", 0.9},
	{regexp.MustCompile(`\b(book|comic|magazine)\b`), "5942", "Book Stores", 0.9},
	{regexp.MustCompile(`\b(pharmacy|drug|prescription)\b`), "5912", "Drug Stores and Pharmacies", 0.9},
	{regexp.MustCompile(`\b(toy|game|hobby)\b`), "5945", "Hobby, Toy, and Game Shops", 0.85},
}

// patternClassify matches the combined name against the business-type
// patterns, taking the highest-confidence hit and turning the runners-up
// into alternatives. Falls through to keyword scoring, then to a split on
// whether the name reads like a person offering a service.
func (s *Narrative) patternClassify(q Query) Decision {
	name := combinedName(q)

	if e, ok := s.deps.Table.Lookup(q.PriorCode); ok {
		d := Decision{
			Code:        e.Code,
			Description: e.Description,
			Confidence:  priorReuseConfidence,
			Rationale:   "Reusing the prior classification; no service available to reassess it.",
			Risk:        e.Risk,
		}
		d.Alternatives = KeywordAlternatives(d.Code, name, s.deps.Table)
		d.finalize(q, s.deps.Table)
		return d
	}

	var hits []namePattern
	for _, p := range namePatterns {
		if p.re.MatchString(name) {
			hits = append(hits, p)
		}
	}

	if len(hits) > 0 {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].confidence > hits[j].confidence })
		top := hits[0]

		var alts []Alternative
		for _, h := range hits[1:] {
			if len(alts) == 2 {
				break
			}
			alts = append(alts, Alternative{
				Code:        h.code,
				Description: h.desc,
				Confidence:  h.confidence - 0.2,
			})
		}
		alts = parse.FillAlternatives(alts, top.code)

		d := Decision{
			Code:         top.code,
			Description:  top.desc,
			Confidence:   top.confidence,
			Alternatives: alts,
			Rationale:    fmt.Sprintf("Pattern matching identified keywords related to %s.", top.desc),
		}
		d.finalize(q, s.deps.Table)
		return d
	}

	if code, score := bestKeywordMatch(name, s.deps.Table, ""); code != "" {
		e, _ := s.deps.Table.Lookup(code)
		conf := 0.5 + 0.1*float64(score)
		if conf > 0.85 {
			conf = 0.85
		}
		d := Decision{
			Code:        e.Code,
			Description: e.Description,
			Confidence:  conf,
			Rationale:   fmt.Sprintf("Keyword matching identified terms related to %s.", e.Description),
		}
		d.Alternatives = KeywordAlternatives(d.Code, name, s.deps.Table)
		d.finalize(q, s.deps.Table)
		return d
	}

	// Nothing matched. A multi-word name starting with what looks like a
	// person's name suggests a service business; otherwise default to
	// retail as the statistically more common category.
	d := Decision{
		Confidence: 0.6,
		Rationale:  "Unable to identify a specific business type from the name.",
	}
	if first, _, ok := strings.Cut(strings.TrimSpace(q.SubjectName), " "); ok && len(first) > 2 {
		d.Code = "7299"
		d.Description = "Miscellaneous Personal Services"
		d.Alternatives = []Alternative{
			{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores", Confidence: 0.3},
			{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.2},
		}
	} else {
		d.Code = "5999"
		d.Description = "Miscellaneous and Specialty Retail Stores"
		d.Alternatives = []Alternative{
			{Code: "7299", Description: "Miscellaneous Personal Services", Confidence: 0.3},
			{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.2},
		}
	}
	d.finalize(q, s.deps.Table)
	return d
}

const narrativeSystemPrompt = `You are an expert in merchant classification and Merchant Category Codes (MCCs) with extensive knowledge of global business types across all industries.

You specialize in exact, accurate MCC assignment according to industry standards:
1. Precise adherence to standard industry MCC assignments.
2. Avoidance of generic categories (7299, 5999) whenever possible.
3. Focus on direct business indicators in merchant names.
4. Prioritizing industry-specific codes over general alternatives.

You will be evaluated on exact MCC code matching. Use standard industry assignments, not creative alternatives. Generic categories only when absolutely necessary.`

func (s *Narrative) prompt(q Query) string {
	var b strings.Builder

	b.WriteString(`# MCC Classification Task

## Strict Accuracy Directives
1. Your classification must match standard industry assignments.
2. You are evaluated on exact matching to true MCC codes, not general categorization.
3. Over-reliance on generic catch-all categories (5999, 7299) is a failure.
4. Prioritize specific industry codes over general ones.

## Merchant Information
`)
	fmt.Fprintf(&b, "Merchant Name: %q\n", q.SubjectName)
	if q.LegalName != "" && q.LegalName != q.SubjectName {
		fmt.Fprintf(&b, "Legal Name: %q\n", q.LegalName)
	}
	if q.PriorCode != "" && q.PriorDescription != "" {
		fmt.Fprintf(&b, "Original MCC: %s - %s\n", q.PriorCode, q.PriorDescription)
	}
	if q.PriorNote != "" {
		fmt.Fprintf(&b, "Additional Description: %s\n", q.PriorNote)
	}

	b.WriteString(`
## Analysis Guidelines
1. Examine the merchant name for direct business identifiers (exact matches like "restaurant" or "salon").
2. For ambiguous names, apply statistical likelihood, not creative interpretation.
3. When a name contains a person's name followed by a service ("Smith Consulting"), focus on the service part.
4. Suffixes like "LLC" or "Inc" carry no classification signal.

## Reference MCCs
`)
	b.WriteString(s.referenceList(q))

	b.WriteString(`
## Output Format
1. Analysis: step-by-step business identification
2. Industry Classification: broad sector
3. Primary MCC: [code]
4. MCC Description: [full description]
5. Reasoning: justification linking the name to industry standards
6. Confidence: [High/Medium/Low] with a percentage (e.g. "85% confident")
7. Alternative MCCs: 2-3 other possible codes in descending order with brief explanations
`)
	return b.String()
}

// commonCodes is the reference subset embedded in the prompt; the full
// table would blow the token budget.
var commonCodes = []string{
	"5411", "5814", "5812", "5999", "5732", "5045", "7299", "5311", "5511",
	"5200", "5712", "5947", "5499", "5992", "5942", "8011", "8021", "8099",
	"7230", "4121", "7011", "4899", "5941", "7992", "5651", "5699", "5399",
	"5944", "5661", "5722", "5945", "0742", "7542", "7298", "7349", "8351",
	"1520", "7538", "4214", "5251", "5921",
}

func (s *Narrative) referenceList(q Query) string {
	codes := commonCodes
	if prior := mcc.NormalizeCode(q.PriorCode); prior != "" {
		found := false
		for _, c := range codes {
			if c == prior {
				found = true
				break
			}
		}
		if !found {
			codes = append(append([]string{}, codes...), prior)
		}
	}

	var b strings.Builder
	for _, c := range codes {
		if e, ok := s.deps.Table.Lookup(c); ok {
			fmt.Fprintf(&b, "- %s : %s\n", e.Code, e.Description)
		}
	}
	return b.String()
}
