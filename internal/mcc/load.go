package mcc

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/mcceval/internal/logging"
)

//go:embed data/mcc_list.csv
var embeddedList []byte

// minTableRows is the sanity threshold for a loaded table. Fewer rows than
// this means the source is truncated or malformed and the embedded list is
// used instead.
const minTableRows = 100

// Load builds a Table from the CSV file at path. An empty path, a missing
// file, or a table below the sanity threshold degrades to the embedded
// list with a warning; it is never an error. A malformed embedded list
// degrades once more to the builtin table.
func Load(path string) *Table {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Logger.Warnw("category list unreadable, using embedded list",
				"path", path, "error", err)
		} else if t, err := parseCSV(data); err != nil {
			logging.Logger.Warnw("category list malformed, using embedded list",
				"path", path, "error", err)
		} else if t.Len() < minTableRows {
			logging.Logger.Warnw("category list suspiciously small, using embedded list",
				"path", path, "rows", t.Len(), "min", minTableRows)
		} else {
			logging.Logger.Infow("loaded category list", "path", path, "rows", t.Len())
			return t
		}
	}

	t, err := parseCSV(embeddedList)
	if err != nil || t.Len() < minTableRows {
		logging.Logger.Warnw("embedded category list unusable, using builtin table",
			"error", err)
		return NewTable(builtinEntries)
	}
	return t
}

// parseCSV reads rows of mcc,description[,classification].
func parseCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	codeIdx, descIdx, riskIdx := col("mcc"), col("description"), col("classification")
	if codeIdx < 0 || descIdx < 0 {
		return nil, fmt.Errorf("missing mcc or description column")
	}

	var entries []Entry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if codeIdx >= len(rec) || descIdx >= len(rec) {
			continue
		}
		e := Entry{
			Code:        rec[codeIdx],
			Description: strings.TrimSpace(rec[descIdx]),
		}
		if riskIdx >= 0 && riskIdx < len(rec) {
			e.Risk = RiskTier(strings.ToLower(strings.TrimSpace(rec[riskIdx])))
		}
		if NormalizeCode(e.Code) == "" || e.Description == "" {
			continue
		}
		entries = append(entries, e)
	}
	return NewTable(entries), nil
}

// builtinEntries is the last-resort table used when no list can be loaded.
// Small on purpose: enough common categories to keep producing decisions.
var builtinEntries = []Entry{
	{Code: "5411", Description: "Grocery Stores and Supermarkets"},
	{Code: "5499", Description: "Miscellaneous Food Stores Convenience Stores and Specialty Markets"},
	{Code: "5812", Description: "Eating Places and Restaurants"},
	{Code: "5814", Description: "Fast Food Restaurants"},
	{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores"},
	{Code: "5311", Description: "Department Stores"},
	{Code: "5200", Description: "Home Supply Warehouse Stores"},
	{Code: "5651", Description: "Family Clothing Stores"},
	{Code: "5661", Description: "Shoe Stores"},
	{Code: "5732", Description: "Electronics Stores"},
	{Code: "5045", Description: "Computers Computer Peripheral Equipment and Software"},
	{Code: "5912", Description: "Drug Stores and Pharmacies", Risk: RiskPreApproval},
	{Code: "7011", Description: "Lodging Hotels Motels and Resorts"},
	{Code: "7230", Description: "Barber and Beauty Shops"},
	{Code: "7298", Description: "Health and Beauty Spas"},
	{Code: "7299", Description: "Miscellaneous Personal Services"},
	{Code: "7399", Description: "Business Services Not Elsewhere Classified"},
	{Code: "7538", Description: "Automotive Service Shops Non Dealer"},
	{Code: "7699", Description: "Repair Shops and Related Services Miscellaneous"},
	{Code: "8011", Description: "Doctors and Physicians"},
	{Code: "8021", Description: "Dentists and Orthodontists"},
	{Code: "8099", Description: "Medical Services and Health Practitioners Not Elsewhere Classified"},
	{Code: "8111", Description: "Legal Services and Attorneys"},
	{Code: "8999", Description: "Professional Services Not Elsewhere Classified"},
	{Code: "5933", Description: "Pawn Shops", Risk: RiskProhibited},
	{Code: "7995", Description: "Betting Casino Gambling and Lottery", Risk: RiskProhibited},
	{Code: "5993", Description: "Cigar Stores and Stands", Risk: RiskProhibited},
	{Code: "7273", Description: "Dating and Escort Services", Risk: RiskProhibited},
	{Code: "7297", Description: "Massage Parlors", Risk: RiskRestricted},
	{Code: "5816", Description: "Digital Goods Games", Risk: RiskRestricted},
}
