package evaluator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mcceval/internal/logging"
)

const sheetName = "Evaluation"

// WriteExcel renders the same comparison table as WriteCSV into an .xlsx
// workbook with a styled header row. Confidence cells stay numeric so the
// sheet can be sorted and filtered directly.
func WriteExcel(path string, rep *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := tableHeader(rep)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rep.Rows {
		values := []any{
			row.Record.SubjectName,
			row.Record.LegalName,
			row.Record.TrueCode,
			row.Record.TrueDescription,
		}
		for _, c := range row.Cells {
			values = append(values, c.Code, c.Description, c.Confidence, c.Match)
		}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", rowIdx+2), &values); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	summary := make([]any, 0, len(header))
	for _, v := range summaryRow(rep) {
		summary = append(summary, v)
	}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", len(rep.Rows)+2), &summary); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}

	for i := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 22)
	}
	f.SetActiveSheet(index)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	logging.Logger.Infow("wrote comparison workbook", "path", path, "rows", len(rep.Rows))
	return nil
}
