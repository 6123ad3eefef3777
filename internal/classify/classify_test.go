package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/mcc"
)

func testTable() *mcc.Table {
	return mcc.NewTable([]mcc.Entry{
		{Code: "5045", Description: "Computers and Computer Software"},
		{Code: "5251", Description: "Hardware Stores"},
		{Code: "5399", Description: "Miscellaneous General Merchandise"},
		{Code: "5411", Description: "Grocery Stores and Supermarkets"},
		{Code: "5499", Description: "Miscellaneous Food Stores"},
		{Code: "5651", Description: "Family Clothing Stores"},
		{Code: "5712", Description: "Furniture and Home Furnishings Stores"},
		{Code: "5812", Description: "Eating Places and Restaurants"},
		{Code: "5814", Description: "Fast Food Restaurants"},
		{Code: "5912", Description: "Drug Stores and Pharmacies"},
		{Code: "5942", Description: "Book Stores"},
		{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores"},
		{Code: "7011", Description: "Lodging - Hotels, Motels, Resorts"},
		{Code: "7230", Description: "Barber and Beauty Shops"},
		{Code: "7299", Description: "Miscellaneous Personal Services"},
		{Code: "7399", Description: "Business Services, Not Elsewhere Classified"},
		{Code: "7538", Description: "Automotive Service Shops"},
		{Code: "7995", Description: "Betting and Gambling", Risk: mcc.RiskProhibited},
		{Code: "7297", Description: "Massage Parlors", Risk: mcc.RiskRestricted},
		{Code: "8011", Description: "Doctors and Physicians"},
		{Code: "8999", Description: "Professional Services, Not Elsewhere Classified"},
	})
}

func testDeps(p llm.Provider) Deps {
	return Deps{Table: testTable(), Provider: p}
}

func checkInvariants(t *testing.T, d Decision) {
	t.Helper()
	if d.Confidence < 0 || d.Confidence > 1 {
		t.Errorf("confidence %v out of [0,1]", d.Confidence)
	}
	if d.Code == "" {
		t.Error("empty decision code")
	}
	for _, alt := range d.Alternatives {
		if alt.Code == d.Code {
			t.Errorf("alternative %q duplicates primary", alt.Code)
		}
		if alt.Confidence < 0 || alt.Confidence > 1 {
			t.Errorf("alternative confidence %v out of [0,1]", alt.Confidence)
		}
	}
}

func TestRegistryCaseInsensitive(t *testing.T) {
	for _, name := range []string{"tiered", "Tiered", "TIERED", " tiered "} {
		s, err := New(name, testDeps(nil))
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if s.Name() != "tiered" {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}
}

func TestRegistryUnknownStrategy(t *testing.T) {
	_, err := New("nonexistent", testDeps(nil))
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestNewAllIndependentInstances(t *testing.T) {
	calls := 0
	all := NewAll(func() Deps {
		calls++
		return testDeps(nil)
	})
	if len(all) != len(Names()) {
		t.Fatalf("NewAll returned %d strategies, want %d", len(all), len(Names()))
	}
	if calls != len(all) {
		t.Errorf("deps constructed %d times, want one per strategy", calls)
	}
	for i, s := range all {
		if s.Name() != Names()[i] {
			t.Errorf("strategy %d = %q, want %q", i, s.Name(), Names()[i])
		}
	}
}

func TestEmptySubjectNameSkipsService(t *testing.T) {
	for _, name := range Names() {
		mock := llm.NewMockProvider()
		s, err := New(name, testDeps(mock))
		if err != nil {
			t.Fatal(err)
		}
		d, err := s.Classify(context.Background(), Query{SubjectName: "   "})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if mock.CallCount() != 0 {
			t.Errorf("%s: %d service calls for empty name, want 0", name, mock.CallCount())
		}
		checkInvariants(t, d)
	}
}

func TestAllStrategiesDegradeWithoutProvider(t *testing.T) {
	q := Query{SubjectName: "City Grocery", LegalName: "Maria Lopez"}
	for _, name := range Names() {
		s, err := New(name, testDeps(nil))
		if err != nil {
			t.Fatal(err)
		}
		d, err := s.Classify(context.Background(), q)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if d.Code != "5411" {
			t.Errorf("%s: code = %q, want 5411 from keyword match on Grocery", name, d.Code)
		}
		checkInvariants(t, d)
	}
}
