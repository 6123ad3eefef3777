package mcc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5812", "5812"},
		{"411", "0411"},
		{" 5812 ", "5812"},
		{"MCC 5812", "5812"},
		{"58-12", "5812"},
		{"", ""},
		{"none", ""},
		{"58123", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTableNormalizesAndDefaults(t *testing.T) {
	table := NewTable([]Entry{
		{Code: "411", Description: "Padded"},
		{Code: "5812", Description: "Restaurants"},
		{Code: "7995", Description: "Gambling", Risk: RiskProhibited},
		{Code: "bogus", Description: "Dropped"},
	})

	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}

	e, ok := table.Lookup("411")
	if !ok {
		t.Fatal("Lookup(411) not found")
	}
	if e.Code != "0411" {
		t.Errorf("code = %q, want zero-padded 0411", e.Code)
	}
	if e.Risk != RiskApproved {
		t.Errorf("risk = %q, want default approved", e.Risk)
	}

	if e, _ := table.Lookup("7995"); e.Risk != RiskProhibited {
		t.Errorf("7995 risk = %q, want prohibited", e.Risk)
	}
}

func TestEntriesSortedByCode(t *testing.T) {
	table := NewTable([]Entry{
		{Code: "7299", Description: "Services"},
		{Code: "5411", Description: "Grocery"},
		{Code: "0742", Description: "Veterinary"},
	})
	entries := table.Entries()
	want := []string{"0742", "5411", "7299"}
	for i, e := range entries {
		if e.Code != want[i] {
			t.Errorf("entries[%d].Code = %q, want %q", i, e.Code, want[i])
		}
	}
}

func TestPartitionCSVs(t *testing.T) {
	table := NewTable([]Entry{
		{Code: "5411", Description: "Grocery"},
		{Code: "7995", Description: "Gambling", Risk: RiskProhibited},
		{Code: "5993", Description: "Cigar Stores", Risk: RiskRestricted},
	})

	approved := table.ApprovedCSV()
	if !strings.Contains(approved, "5411,Grocery") {
		t.Errorf("ApprovedCSV missing approved entry:\n%s", approved)
	}
	if strings.Contains(approved, "7995") {
		t.Errorf("ApprovedCSV contains prohibited entry:\n%s", approved)
	}

	risk := table.RiskCSV()
	if !strings.Contains(risk, "7995,Gambling,prohibited") {
		t.Errorf("RiskCSV missing prohibited entry:\n%s", risk)
	}
	if !strings.Contains(risk, "5993,Cigar Stores,restricted") {
		t.Errorf("RiskCSV missing restricted entry:\n%s", risk)
	}
	if strings.Contains(risk, "5411") {
		t.Errorf("RiskCSV contains approved entry:\n%s", risk)
	}

	full := table.FullCSV()
	for _, code := range []string{"5411", "7995", "5993"} {
		if !strings.Contains(full, code) {
			t.Errorf("FullCSV missing %s:\n%s", code, full)
		}
	}
}

func TestLoadEmbeddedList(t *testing.T) {
	table := Load("")
	if table.Len() < minTableRows {
		t.Fatalf("embedded table has %d rows, want at least %d", table.Len(), minTableRows)
	}
	e, ok := table.Lookup("5812")
	if !ok {
		t.Fatal("embedded table missing 5812")
	}
	if e.Description == "" {
		t.Error("5812 has empty description")
	}
}

func TestLoadDegradesOnMissingFile(t *testing.T) {
	table := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if table.Len() < minTableRows {
		t.Errorf("missing file should fall back to embedded list, got %d rows", table.Len())
	}
}

func TestLoadDegradesOnTinyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.csv")
	content := "mcc,description\n5812,Restaurants\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	table := Load(path)
	if table.Len() < minTableRows {
		t.Errorf("tiny file should fall back to embedded list, got %d rows", table.Len())
	}
}

func TestIndustryBands(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"5411", "Food and Grocery Retail"},
		{"5812", "Restaurants and Food Service"},
		{"5999", "Specialty Retail"},
		{"5311", "Retail/Merchants"},
		{"7230", "Personal Services"},
		{"7399", "Business and Professional Services"},
		{"7538", "Auto Services"},
		{"8011", "Healthcare"},
		{"8111", "Legal Services"},
		{"4111", "Transportation/Utilities"},
		{"6011", "Financial Services"},
		{"0742", "Contractors/Construction/Agriculture"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := Industry(tt.code); got != tt.want {
			t.Errorf("Industry(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
