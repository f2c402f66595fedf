// Package fundamentals fetches the cross-sectional metrics table published
// by fundamentus.com.br.
package fundamentals

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guilherme-rhein/invest-smart-b3/internal/loader"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

const defaultResultURL = "https://fundamentus.com.br/resultado.php"

// Client scrapes the provider's single wide result table.
type Client struct {
	URL        string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a fundamentals client. url may be empty for the default.
func NewClient(url string, log zerolog.Logger) *Client {
	if url == "" {
		url = defaultResultURL
	}
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "fundamentals").Logger(),
	}
}

func (c *Client) Name() string { return "fundamentus" }

// FetchTable downloads and parses the full fundamentals table. Any failure
// is a FetchError; it never invalidates previously computed results.
func (c *Client) FetchTable(ctx context.Context) (*model.FundamentalsTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, &model.FetchError{Provider: c.Name(), Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &model.FetchError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &model.FetchError{Provider: c.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	table, err := parseTable(resp.Body)
	if err != nil {
		return nil, &model.FetchError{Provider: c.Name(), Err: err}
	}
	c.log.Debug().Int("rows", len(table.Rows)).Msg("fundamentals table parsed")
	return table, nil
}

func parseTable(body io.Reader) (*model.FundamentalsTable, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	sel := doc.Find("table").First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no table in document")
	}

	var columns []string
	sel.Find("thead th, tr th").Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, strings.TrimSpace(th.Text()))
	})
	if len(columns) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	tickerIdx := -1
	for i, col := range columns {
		if col == model.TickerColumn {
			tickerIdx = i
			break
		}
	}
	if tickerIdx < 0 {
		return nil, fmt.Errorf("table has no %q column", model.TickerColumn)
	}

	table := &model.FundamentalsTable{Columns: columns}
	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != len(columns) {
			return
		}
		row := model.FundamentalsRow{Values: make(map[string]decimal.Decimal, len(columns)-1)}
		cells.Each(func(i int, td *goquery.Selection) {
			text := strings.TrimSpace(td.Text())
			if i == tickerIdx {
				row.Ticker = loader.NormalizeTicker(text)
				return
			}
			if v, err := ParseBRNumber(text); err == nil {
				row.Values[columns[i]] = v
			}
		})
		if row.Ticker != "" {
			table.Rows = append(table.Rows, row)
		}
	})
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}
	return table, nil
}

// ParseBRNumber parses a Brazilian-locale numeric cell: thousands separated
// by dots, decimal comma, optional "%" suffix.
func ParseBRNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty cell")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
