// Package loader parses the uploaded asset-list workbook.
package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// exchangeSuffix is appended to bare tickers so they match the provider
// format for B3-listed assets.
const exchangeSuffix = ".SA"

// NormalizeTicker upper-cases a raw symbol and ensures the exchange suffix.
func NormalizeTicker(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return ""
	}
	if !strings.HasSuffix(t, exchangeSuffix) {
		t += exchangeSuffix
	}
	return t
}

// ListSheets returns the sheet names of an uploaded workbook.
func ListSheets(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &model.LoadError{Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// LoadTickers reads the first column of the selected sheet (skipping the
// header row) and returns normalized tickers in sheet order. Duplicates are
// kept; an absent sheet or an empty first column is a fatal LoadError.
func LoadTickers(r io.Reader, sheet string) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &model.LoadError{Sheet: sheet, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &model.LoadError{Sheet: sheet, Err: fmt.Errorf("read rows: %w", err)}
	}
	if len(rows) < 2 {
		return nil, &model.LoadError{Sheet: sheet, Err: fmt.Errorf("no asset rows below the header")}
	}

	tickers := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if t := NormalizeTicker(row[0]); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return nil, &model.LoadError{Sheet: sheet, Err: fmt.Errorf("first column holds no tickers")}
	}
	return tickers, nil
}
