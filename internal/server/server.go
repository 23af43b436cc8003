package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admissions/internal/common/config"
	"admissions/internal/common/logger"
	"admissions/internal/common/observability"
	"admissions/internal/common/validation"
	"admissions/internal/models"
)

// Admissions is the backend behind the HTTP API.
type Admissions interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error)
	Status(ctx context.Context, studentID string) (*models.ApplicationSummary, error)
	ResendLetter(ctx context.Context, studentID string) (*models.SubmitResponse, error)
	Health(ctx context.Context) models.HealthResponse
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger logger.Logger
}

// New builds the gin engine. obs may be nil.
func New(cfg config.ServerConfig, svc Admissions, obs *observability.Observability, log logger.Logger) *Server {
	log = logger.Component(log, "http")

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger(log))
	engine.Use(Metrics(obs))
	engine.Use(MaxBodySize(cfg.MaxBodyBytes))
	engine.Use(CORS(cfg.AllowedOrigins))

	api := NewAPI(svc, validation.NewSubmissionValidator(), log)
	registerRoutes(engine, api, cfg.MetricsPath)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
		logger: log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
