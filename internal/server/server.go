// Package server exposes editing sessions over HTTP with gin. Every browser
// gets its own session, keyed by cookie, backed by the shared store and
// exporter of the application.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-resumegen/pkg/export"
	"github.com/goliatone/go-resumegen/pkg/renderers/vanilla"
)

// StylesheetPath is where the editor stylesheet is served.
const StylesheetPath = "/assets/" + vanilla.StylesheetName

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExportDefaults sets the options each export request starts from.
func WithExportDefaults(opts export.Options) Option {
	return func(s *Server) {
		s.exportDefaults = opts
	}
}

// WithSessionTTL sets how long an idle session is kept. Zero or less keeps
// sessions until Close.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// Server routes HTTP requests to editing sessions.
type Server struct {
	engine         *gin.Engine
	sessions       *Sessions
	logger         *zap.Logger
	exportDefaults export.Options
	sessionTTL     time.Duration
}

// New builds the router. factory starts a session for each new visitor.
func New(factory SessionFactory, options ...Option) (*Server, error) {
	if factory == nil {
		return nil, errors.New("server: session factory is required")
	}
	s := &Server{
		logger:         zap.NewNop(),
		exportDefaults: export.DefaultOptions(),
		sessionTTL:     DefaultSessionTTL,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.sessions = newSessions(factory, s.logger, s.sessionTTL)

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), Logger(s.logger))
	s.engine = engine
	s.routes()
	return s, nil
}

// NewEditor returns the form renderer linked to the served stylesheet.
func NewEditor() (*vanilla.Renderer, error) {
	return vanilla.New(vanilla.WithStylesheets(StylesheetPath))
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions exposes the live session registry.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Close flushes pending auto-saves of every session.
func (s *Server) Close() error {
	return s.sessions.Close()
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/builder")
	})
	r.StaticFS("/assets", http.FS(vanilla.AssetsFS()))

	r.GET("/builder", s.session(s.getBuilder))
	r.POST("/builder", s.session(s.postBuilder))
	r.GET("/preview", s.session(s.getPreview))
	r.GET("/document", s.session(s.getDocument))

	api := r.Group("/api")
	api.GET("/templates", s.session(s.listTemplates))
	api.GET("/themes", s.session(s.listThemes))

	api.GET("/resume", s.session(s.getResume))
	api.PUT("/resume", s.session(s.putResume))
	api.PUT("/resume/template", s.session(s.putTemplate))
	api.PUT("/resume/theme", s.session(s.putTheme))
	api.PATCH("/resume/fields", s.session(s.patchFields))
	api.POST("/resume/sections/:section/items", s.session(s.addItem))
	api.DELETE("/resume/sections/:section/items/:index", s.session(s.removeItem))
	api.POST("/resume/sections/:section/toggle", s.session(s.toggleSection))
	api.GET("/resume/validate", s.session(s.validate))
	api.GET("/resume/render/:renderer", s.session(s.render))

	api.GET("/resumes", s.session(s.listResumes))
	api.POST("/resumes", s.session(s.saveResume))
	api.PUT("/resumes/current", s.session(s.updateResume))
	api.POST("/resumes/:id/open", s.session(s.openResume))
	api.DELETE("/resumes/:id", s.session(s.deleteResume))

	api.GET("/settings", s.session(s.getSettings))
	api.PATCH("/settings", s.session(s.patchSettings))

	api.POST("/export", s.session(s.exportPDF))

	api.GET("/storage", s.session(s.storageInfo))
	api.GET("/backup", s.session(s.exportBackup))
	api.POST("/backup", s.session(s.importBackup))
	api.DELETE("/storage", s.session(s.clearStorage))
}
