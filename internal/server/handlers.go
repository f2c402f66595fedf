package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guilherme-rhein/invest-smart-b3/internal/export"
	"github.com/guilherme-rhein/invest-smart-b3/internal/filter"
	"github.com/guilherme-rhein/invest-smart-b3/internal/loader"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// Distinct empty-state messages, one per situation.
const (
	msgNoneClassified  = "Nenhum ativo foi classificado com esse filtro."
	msgNoFilterMatches = "Nenhum resultado encontrado com os filtros aplicados."
	msgNoFundamentals  = "Nenhum dado fundamentalista disponível para os ativos selecionados."
)

type errorResponse struct {
	Error string `json:"error"`
}

// tierGroup is one display block of the grouped classification view.
type tierGroup struct {
	Tier    model.Tier                `json:"tier"`
	Records model.ClassificationTable `json:"records"`
}

type classifyResponse struct {
	Imported   int             `json:"imported"`
	Classified int             `json:"classified"`
	Skipped    []string        `json:"skipped,omitempty"`
	Failures   []model.Failure `json:"failures,omitempty"`
	Groups     []tierGroup     `json:"groups"`
	Message    string          `json:"message,omitempty"`
}

type filterResponse struct {
	Records model.ClassificationTable `json:"records"`
	Message string                    `json:"message,omitempty"`
}

type fundamentalsRequest struct {
	Tickers []string `json:"tickers"`
}

type fundamentalsResponse struct {
	Matched   *model.FundamentalsTable `json:"matched"`
	Unmatched []string                 `json:"unmatched,omitempty"`
	Message   string                   `json:"message,omitempty"`
	Warning   string                   `json:"warning,omitempty"`
}

// Sheets lists the tabs of an uploaded workbook so the caller can pick one.
func (s *Server) Sheets(c echo.Context) error {
	file, err := openUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	defer file.Close()

	sheets, err := loader.ListSheets(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string][]string{"sheets": sheets})
}

// Classify ingests the asset list, runs the batch classification, stores
// the result for the session, and returns the primary-filtered groups.
func (s *Server) Classify(c echo.Context) error {
	file, err := openUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	defer file.Close()

	sheet := c.FormValue("sheet")
	tickers, err := loader.LoadTickers(file, sheet)
	if err != nil {
		var le *model.LoadError
		if errors.As(err, &le) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	mode, ok := model.ParsePrimaryMode(c.FormValue("mode"))
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown primary mode"})
	}

	result := s.classifier.ClassifyAll(c.Request().Context(), tickers)
	s.setResult(result)

	filtered := filter.ApplyPrimary(result.Records, mode)
	resp := classifyResponse{
		Imported:   len(tickers),
		Classified: result.Classified(),
		Skipped:    result.Skipped,
		Failures:   result.Failures,
		Groups:     groupByTier(filtered),
	}
	if len(filtered) == 0 {
		resp.Message = msgNoneClassified
	}
	return c.JSON(http.StatusOK, resp)
}

// Filter applies a secondary filter spec to the stored classification.
func (s *Server) Filter(c echo.Context) error {
	result := s.result()
	if result == nil {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no classification run yet"})
	}

	spec := model.DefaultFilterSpec()
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	records := filter.ApplySecondary(result.Records, spec)
	resp := filterResponse{Records: records}
	if len(records) == 0 {
		resp.Message = msgNoFilterMatches
	}
	return c.JSON(http.StatusOK, resp)
}

// Fundamentals reconciles a target ticker set against the fundamentals
// table. An empty or "all" selection targets every classified ticker. A
// provider failure is surfaced without touching the stored classification.
func (s *Server) Fundamentals(c echo.Context) error {
	result := s.result()
	if result == nil {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no classification run yet"})
	}

	var req fundamentalsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	target := targetTickers(req.Tickers, result)

	table, err := s.fund.GetAll(c.Request().Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("fundamentals provider failed")
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}

	matched, unmatched := filter.Reconcile(target, table)
	resp := fundamentalsResponse{Matched: matched, Unmatched: unmatched}
	if len(matched.Rows) == 0 {
		resp.Message = msgNoFundamentals
	}
	if len(unmatched) > 0 {
		resp.Warning = warningUnmatched(unmatched)
	}
	return c.JSON(http.StatusOK, resp)
}

// ExportClassification streams the primary-filtered stored table as XLSX.
func (s *Server) ExportClassification(c echo.Context) error {
	result := s.result()
	if result == nil {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no classification run yet"})
	}
	mode, ok := model.ParsePrimaryMode(c.QueryParam("mode"))
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown primary mode"})
	}

	header, rows := export.ClassificationSheet(filter.ApplyPrimary(result.Records, mode))
	return s.attachment(c, export.ClassificationFilename, header, rows)
}

// ExportFundamentals reconciles and streams the matched rows as XLSX. The
// tickers query param is a comma list, or empty/"all" for every classified
// ticker.
func (s *Server) ExportFundamentals(c echo.Context) error {
	result := s.result()
	if result == nil {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no classification run yet"})
	}
	var selected []string
	if q := c.QueryParam("tickers"); q != "" {
		selected = strings.Split(q, ",")
	}
	target := targetTickers(selected, result)

	table, err := s.fund.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
	matched, _ := filter.Reconcile(target, table)

	header, rows := export.FundamentalsSheet(matched)
	return s.attachment(c, export.FundamentalsFilename, header, rows)
}

func (s *Server) attachment(c echo.Context, filename string, header []string, rows [][]string) error {
	data, err := export.ToSpreadsheet(header, rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, export.MIMEType, data)
}

func openUpload(c echo.Context) (multipart.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New(`missing "file" upload`)
	}
	return fh.Open()
}

// targetTickers resolves a user selection to the reconciliation target:
// the explicit tickers, or all distinct classified tickers for "all".
func targetTickers(selected []string, result *model.BatchResult) []string {
	spec := model.FilterSpec{Tickers: selected}
	if spec.SelectsAllTickers() {
		return result.Records.Tickers()
	}
	out := make([]string, 0, len(selected))
	for _, t := range selected {
		if t = strings.TrimSpace(t); t != "" && t != model.SelectAll {
			out = append(out, t)
		}
	}
	return out
}

func groupByTier(table model.ClassificationTable) []tierGroup {
	groups := make([]tierGroup, 0, len(model.Tiers))
	for _, tier := range model.Tiers {
		var recs model.ClassificationTable
		for _, rec := range table {
			if rec.Tier.Rank == tier.Rank {
				recs = append(recs, rec)
			}
		}
		if len(recs) > 0 {
			groups = append(groups, tierGroup{Tier: tier, Records: recs})
		}
	}
	return groups
}

func warningUnmatched(unmatched []string) string {
	return "Ativos sem dados fundamentalistas: " + strings.Join(unmatched, ", ")
}
