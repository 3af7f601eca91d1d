package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/primary"
	auth2 "gitlab.com/gradepro.net/internal/core/services/auth"
	"gitlab.com/gradepro.net/internal/core/services/export"
	"gitlab.com/gradepro.net/internal/core/services/grading"
	"gitlab.com/gradepro.net/internal/core/services/submission"
	"gitlab.com/gradepro.net/internal/handlers"
	"gitlab.com/gradepro.net/internal/handlers/auth"
	"gitlab.com/gradepro.net/internal/handlers/exports"
	gradinghandler "gitlab.com/gradepro.net/internal/handlers/grading"
	"gitlab.com/gradepro.net/internal/handlers/response"
	"gitlab.com/gradepro.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	submissionService submission.ISubmissionService
	gradingService    grading.IGradingService
	configs           *grading.ConfigHolder
	exportService     export.IExportService
	authService       auth2.IAuthService
}

func NewServiceProvider(
	submissionService submission.ISubmissionService,
	gradingService grading.IGradingService,
	configs *grading.ConfigHolder,
	exportService export.IExportService,
	authService auth2.IAuthService,
) *ServiceProvider {
	return &ServiceProvider{
		submissionService: submissionService,
		gradingService:    gradingService,
		configs:           configs,
		exportService:     exportService,
		authService:       authService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	MaxUploadMB     int
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(cfg *config.HTTPConfig, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            cfg.Port,
		ServiceName:     cfg.ServiceName,
		MaxUploadMB:     cfg.MaxUploadMB,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	sp := s.ServiceProvider
	if sp.submissionService == nil || sp.gradingService == nil || sp.configs == nil || sp.exportService == nil || sp.authService == nil {
		return errors.New("http server: every service must be provided")
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteSuccess(w, map[string]string{"service": s.ServiceName, "status": "ok"})
	}).Methods("GET")
	auth.NewHandler(sp.authService, s.logger).RegisterRoutes(r)

	api := handlers.APIRouter(r)
	api.Use(handlers.New(sp.authService, s.logger).JWTMiddleware)
	for _, h := range []handlers.RouteRegistrar{
		submissions.NewSubmissionHandler(sp.submissionService, sp.gradingService, s.MaxUploadMB, s.logger),
		gradinghandler.NewGradingHandler(sp.gradingService, sp.configs, s.logger),
		exports.NewExportHandler(sp.exportService, s.logger),
	} {
		h.RegisterRoutes(api)
	}
	s.router = r
	return nil
}

// Handler returns the routed handler; Init must have been called
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
