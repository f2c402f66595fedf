// Package export serializes result tables to single-sheet XLSX workbooks.
package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// MIMEType is the standard XLSX content type for downloads.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Fixed download filenames.
const (
	ClassificationFilename = "classificacao_geral.xlsx"
	FundamentalsFilename   = "analise_fundamentalista.xlsx"
)

const sheetName = "Sheet1"

// ToSpreadsheet renders a header row plus data rows as XLSX bytes. An empty
// row set yields a header-only workbook.
func ToSpreadsheet(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// ClassificationSheet flattens a classification table into header and rows.
func ClassificationSheet(table model.ClassificationTable) ([]string, [][]string) {
	header := []string{"Ativo", "RSI", "Classificação"}
	rows := make([][]string, len(table))
	for i, rec := range table {
		rows[i] = []string{
			rec.Ticker,
			strconv.FormatFloat(rec.RSI, 'f', 2, 64),
			rec.Tier.Label,
		}
	}
	return header, rows
}

// FundamentalsSheet flattens a fundamentals table into header and rows,
// preserving the provider's column order.
func FundamentalsSheet(table *model.FundamentalsTable) ([]string, [][]string) {
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for j, col := range table.Columns {
			if col == model.TickerColumn {
				cells[j] = row.Ticker
				continue
			}
			if v, ok := row.Values[col]; ok {
				cells[j] = v.String()
			}
		}
		rows[i] = cells
	}
	return table.Columns, rows
}
