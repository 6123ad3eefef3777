package evaluator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/mcceval/internal/logging"
)

// Recognized input headers, matched case-insensitively after trimming.
// Anything unrecognized lands in Record.Extra under its original name.
var headerFields = map[string]func(*Record, string){
	"subject_name":            func(r *Record, v string) { r.SubjectName = v },
	"merchant name":           func(r *Record, v string) { r.SubjectName = v },
	"legal_name":              func(r *Record, v string) { r.LegalName = v },
	"legal name":              func(r *Record, v string) { r.LegalName = v },
	"true_code":               func(r *Record, v string) { r.TrueCode = v },
	"actual mcc":              func(r *Record, v string) { r.TrueCode = v },
	"actual mcc code":         func(r *Record, v string) { r.TrueCode = v },
	"true_description":        func(r *Record, v string) { r.TrueDescription = v },
	"mcc description":         func(r *Record, v string) { r.TrueDescription = v },
	"prior_code":              func(r *Record, v string) { r.PriorCode = v },
	"original mcc code":       func(r *Record, v string) { r.PriorCode = v },
	"prior_description":       func(r *Record, v string) { r.PriorDescription = v },
	"ai_original_description": func(r *Record, v string) { r.PriorDescription = v },
	"prior_note":              func(r *Record, v string) { r.PriorNote = v },
}

// ReadRecords loads labeled merchants from a CSV file. The first row is
// the header; column order is free.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: no header row", path)
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec Record
		for i, raw := range row {
			if i >= len(header) {
				break
			}
			name := header[i]
			v := strings.TrimSpace(raw)
			if set, ok := headerFields[strings.ToLower(strings.TrimSpace(name))]; ok {
				set(&rec, v)
				continue
			}
			if v == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[name] = v
		}
		records = append(records, rec)
	}
	logging.Logger.Infow("read input records", "path", path, "rows", len(records))
	return records, nil
}

// WriteCSV renders the comparison table: four base columns, one
// code/description/confidence/match column group per strategy, and a
// trailing summary row carrying each strategy's accuracy in its match
// column. The destination directory is created if missing.
func WriteCSV(path string, rep *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader(rep)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rep.Rows {
		if err := w.Write(tableRow(row)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Write(summaryRow(rep)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	logging.Logger.Infow("wrote comparison table", "path", path, "rows", len(rep.Rows))
	return nil
}

func tableHeader(rep *Report) []string {
	header := []string{"Merchant Name", "Legal Name", "Actual MCC", "MCC Description"}
	for _, name := range rep.Strategies {
		header = append(header,
			name+"'s suggested MCC",
			name+"'s MCC description",
			name+"'s confidence",
			name+"'s match",
		)
	}
	return header
}

func tableRow(row Row) []string {
	out := []string{
		row.Record.SubjectName,
		row.Record.LegalName,
		row.Record.TrueCode,
		row.Record.TrueDescription,
	}
	for _, cell := range row.Cells {
		out = append(out,
			cell.Code,
			cell.Description,
			strconv.FormatFloat(cell.Confidence, 'f', 2, 64),
			cell.Match,
		)
	}
	return out
}

func summaryRow(rep *Report) []string {
	out := []string{"SUMMARY", "", "", ""}
	for _, name := range rep.Strategies {
		out = append(out, "", "", "", FormatAccuracy(rep.Metrics[name]))
	}
	return out
}

// FormatAccuracy renders a metrics entry the way the summary row shows it,
// e.g. "Accuracy: 62.50%".
func FormatAccuracy(m Metrics) string {
	return fmt.Sprintf("Accuracy: %.2f%%", m.Accuracy()*100)
}
