package ui

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"datalens/domain/table"
	"datalens/internal/analysis"
	"datalens/internal/charts"
	"datalens/internal/cleaning"
	"datalens/internal/errors"

	"github.com/gin-gonic/gin"
)

// analysisPage feeds data_analysis.html
type analysisPage struct {
	RequestID        string
	Dataset          string
	Rows             int
	StatisticsHeader []string
	Statistics       [][]string
	Missing          [][]string
	Columns          []string

	Cleaned       bool
	FillMethod    string
	FillValue     string
	DropThreshold string
	Notice        string

	Chart    *charts.Artifact
	ChartURL string
}

type errorPage struct {
	Status    int
	Title     string
	Message   string
	RequestID string
}

func (s *Server) handleHome(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "home.html", gin.H{
		"Content": s.home,
	})
}

func (s *Server) handleUploadForm(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "upload.html", gin.H{
		"Bucket": s.settings.Bucket,
	})
}

// handleUpload stores the file under its original name and moves on to the
// analysis page. The analysis page always reads the configured default key.
func (s *Server) handleUpload(c *gin.Context) {
	rid := c.GetString(requestIDKey)

	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		s.renderTemplate(c, http.StatusBadRequest, "upload.html", gin.H{
			"Bucket": s.settings.Bucket,
			"Error":  "Choose a file to upload.",
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, errors.Wrap(err, "failed to read upload"))
		return
	}
	defer f.Close()

	key := filepath.Base(fh.Filename)
	if err := s.settings.Store.PutObject(c.Request.Context(), s.settings.Bucket, key, f, fh.Size); err != nil {
		s.fail(c, errors.StorageError(s.settings.Bucket, key, err))
		return
	}
	s.logger.Info("uploaded %s/%s (%d bytes) rid=%s", s.settings.Bucket, key, fh.Size, rid)

	c.Redirect(http.StatusSeeOther, "/data_analysis")
}

func (s *Server) handleDataAnalysis(c *gin.Context) {
	tbl, err := s.loadDataset(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "data_analysis.html", s.analyze(c, tbl))
}

func (s *Server) handleDataCleaning(c *gin.Context) {
	rid := c.GetString(requestIDKey)

	params, err := cleaning.ParseParameters(
		c.PostForm("fill_method"),
		c.PostForm("fill_value"),
		c.PostForm("drop_threshold"),
	)
	if err != nil {
		s.fail(c, err)
		return
	}

	tbl, err := s.loadDataset(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	cleaned, err := cleaning.Clean(tbl, params)
	notice := ""
	if err != nil {
		if !errors.HasCode(err, errors.CodeInvalidParameter) {
			s.fail(c, err)
			return
		}
		s.logger.Warn("%v; imputation skipped rid=%s", err, rid)
		notice = fmt.Sprintf("Fill method %q is not recognized; no values were filled.", params.FillMethod)
	}
	s.logger.Info("cleaned %s: %d -> %d columns rid=%s",
		s.settings.DefaultObjectKey, len(tbl.Columns()), len(cleaned.Columns()), rid)

	page := s.analyze(c, cleaned)
	page.Cleaned = true
	page.FillMethod = string(params.FillMethod)
	page.FillValue = params.FillValue
	page.DropThreshold = c.PostForm("drop_threshold")
	page.Notice = notice
	s.renderTemplate(c, http.StatusOK, "data_analysis.html", page)
}

func (s *Server) handleVisualizeData(c *gin.Context) {
	x := c.PostForm("selected_column_x")
	y := c.PostForm("selected_column_y")

	chartType, err := charts.ParseChartType(c.PostForm("visualization_type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	tbl, err := s.loadDataset(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	artifact, err := s.renderer.Render(tbl, x, y, chartType)
	if err != nil {
		if chartType == charts.ScatterPlot && errors.HasCode(err, errors.CodeColumnNotFound) {
			c.String(http.StatusOK, charts.MissingColumnsMessage)
			return
		}
		s.fail(c, err)
		return
	}

	page := s.analyze(c, tbl)
	page.Chart = &artifact
	page.ChartURL = "/charts/latest.png?v=" + page.RequestID
	s.renderTemplate(c, http.StatusOK, "data_analysis.html", page)
}

func (s *Server) handleVisualizeInteractive(c *gin.Context) {
	x := c.PostForm("selected_column_x")
	y := c.PostForm("selected_column_y")

	chartType, err := charts.ParseChartType(c.PostForm("visualization_type"))
	if err != nil {
		s.fail(c, err)
		return
	}

	tbl, err := s.loadDataset(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderInteractive(&buf, tbl, x, y, chartType); err != nil {
		if chartType == charts.ScatterPlot && errors.HasCode(err, errors.CodeColumnNotFound) {
			c.String(http.StatusOK, charts.MissingColumnsMessage)
			return
		}
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleLatestChart(c *gin.Context) {
	path := s.renderer.OutputPath()
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "No chart has been rendered yet.")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.File(path)
}

// loadDataset fetches the configured default object
func (s *Server) loadDataset(ctx context.Context) (*table.Table, error) {
	return s.loader.Load(ctx, s.settings.Bucket, s.settings.DefaultObjectKey)
}

// analyze computes both reports for tbl and logs them at debug level
func (s *Server) analyze(c *gin.Context, tbl *table.Table) analysisPage {
	rid := c.GetString(requestIDKey)

	stats := analysis.Describe(tbl)
	missing := analysis.CountMissing(tbl)
	if s.logger.DebugEnabled() {
		s.logger.Debug("statistics rid=%s\n%s", rid, stats)
		s.logger.Debug("missing values rid=%s\n%s", rid, missing)
	}

	header, rows := stats.Matrix()
	return analysisPage{
		RequestID:        rid,
		Dataset:          s.settings.DefaultObjectKey,
		Rows:             tbl.RowCount(),
		StatisticsHeader: header,
		Statistics:       rows,
		Missing:          missing.Rows(),
		Columns:          tbl.ColumnNames(),
	}
}

// statusFor maps an error's code onto the HTTP status the client sees
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeStorageError:
		return http.StatusBadGateway
	case errors.CodeParseError:
		return http.StatusUnprocessableEntity
	case errors.CodeColumnNotFound, errors.CodeInvalidParameter:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail logs err and renders the error page. Storage details stay in the log.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	rid := c.GetString(requestIDKey)
	s.logger.Error("%s %s -> %d: %v rid=%s", c.Request.Method, c.Request.URL.Path, status, err, rid)

	page := errorPage{Status: status, RequestID: rid}
	switch status {
	case http.StatusBadGateway:
		page.Title = "Dataset unavailable"
		page.Message = "The dataset could not be retrieved from storage. Try again later."
	case http.StatusUnprocessableEntity:
		page.Title = "Unreadable dataset"
		page.Message = errors.GetMessage(err)
	case http.StatusBadRequest:
		page.Title = "Invalid request"
		page.Message = errors.GetMessage(err)
	default:
		page.Title = "Something went wrong"
		page.Message = "The request could not be completed."
	}
	s.renderTemplate(c, status, "error.html", page)
}
