package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"edalens/app"
	"edalens/internal"
	"edalens/internal/config"
	"edalens/internal/metrics"
	"edalens/internal/session"
)

// Deps are the collaborators the web server needs
type Deps struct {
	Config     *config.Config
	Assets     fs.FS
	Sessions   *session.Store
	Uploads    *app.UploadService
	Dashboards *app.DashboardService
	Metrics    *metrics.Metrics
	Logger     *internal.Logger
}

// Server represents the web server for the EDA UI
type Server struct {
	router     *gin.Engine
	templates  *template.Template
	assets     fs.FS
	cfg        *config.Config
	sessions   *session.Store
	uploads    *app.UploadService
	dashboards *app.DashboardService
	metrics    *metrics.Metrics
	logger     *internal.Logger
}

// NewServer parses the templates and wires middleware and routes
func NewServer(deps Deps) (*Server, error) {
	gin.SetMode(deps.Config.Server.GinMode)
	logger := deps.Logger
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	s := &Server{
		router:     gin.New(),
		assets:     deps.Assets,
		cfg:        deps.Config,
		sessions:   deps.Sessions,
		uploads:    deps.Uploads,
		dashboards: deps.Dashboards,
		metrics:    deps.Metrics,
		logger:     logger,
	}
	s.router.MaxMultipartMemory = 32 << 20

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fmtFloat": func(v float64) string {
			if math.IsNaN(v) {
				return "NaN"
			}
			return fmt.Sprintf("%.2f", v)
		},
		"fmtCorr": func(v float64) string {
			return fmt.Sprintf("%.4f", v)
		},
		"svg": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// parseTemplates loads every page and partial under ui/templates
func (s *Server) parseTemplates() error {
	templatesFS, err := fs.Sub(s.assets, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html", "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl
	s.logger.Debug("[TemplateInit] Parsed templates: %s", tmpl.DefinedTemplates())
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/report", s.handleReport)
	s.router.POST("/reset", s.handleReset)

	s.router.GET("/api/dashboard", s.handleDashboardAPI)
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// NewHTTPServer builds the listener with the configured timeouts
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

