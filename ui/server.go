package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"datalens/internal"
	"datalens/internal/charts"
	"datalens/internal/dataset"
	"datalens/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html content/*.md
var embeddedFiles embed.FS

// Settings are the process-wide storage coordinates handed to every handler
type Settings struct {
	Bucket           string
	DefaultObjectKey string
	Store            ports.ObjectStore
}

// Server is the web front end. Every request reloads the dataset; nothing
// is cached between requests.
type Server struct {
	router    *gin.Engine
	settings  Settings
	loader    *dataset.Loader
	renderer  *charts.Renderer
	templates *template.Template
	home      template.HTML
	logger    *internal.Logger
}

// NewServer parses the embedded templates and wires the routes
func NewServer(settings Settings, renderer *charts.Renderer, logger *internal.Logger) (*Server, error) {
	if settings.Store == nil {
		return nil, fmt.Errorf("ui: settings.Store is required")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	home, err := renderMarkdown("content/home.md")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		settings:  settings,
		loader:    dataset.NewLoader(settings.Store, logger),
		renderer:  renderer,
		templates: templates,
		home:      home,
		logger:    logger.With("UI"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for an http.Server or httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)
	s.router.GET("/upload", s.handleUploadForm)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/data_analysis", s.handleDataAnalysis)
	s.router.POST("/data-cleaning", s.handleDataCleaning)
	s.router.POST("/visualize-data", s.handleVisualizeData)
	s.router.POST("/visualize-data/interactive", s.handleVisualizeInteractive)
	s.router.GET("/charts/latest.png", s.handleLatestChart)
}

// renderMarkdown converts an embedded markdown file into trusted HTML
func renderMarkdown(name string) (template.HTML, error) {
	src, err := embeddedFiles.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(bytes.TrimSpace(markdown.ToHTML(src, p, renderer))), nil
}
