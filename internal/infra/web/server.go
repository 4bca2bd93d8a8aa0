package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lukasssicevs/drippler-web/internal/config"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
	"github.com/lukasssicevs/drippler-web/internal/usecase"
)

// apiTimeout bounds every API request; generation is by far the slowest
// path and dominates the budget.
const apiTimeout = 150 * time.Second

type Server struct {
	tryOn   usecase.TryOnUseCase
	billing usecase.BillingUseCase
	account usecase.AccountUseCase
	auth    adapter.AuthProvider
	deduper EventDeduper

	webhookSecret string
	siteURL       string
	extensionID   string
	supabaseURL   string
	anonKey       string
	diagnostics   bool
	dev           bool
	port          int

	log *zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	tryOn usecase.TryOnUseCase,
	billing usecase.BillingUseCase,
	account usecase.AccountUseCase,
	auth adapter.AuthProvider,
	deduper EventDeduper,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		tryOn:         tryOn,
		billing:       billing,
		account:       account,
		auth:          auth,
		deduper:       deduper,
		webhookSecret: cfg.Stripe.WebhookSecret,
		siteURL:       cfg.Server.SiteURL,
		extensionID:   cfg.Server.ExtensionID,
		supabaseURL:   cfg.Supabase.URL,
		anonKey:       cfg.Supabase.AnonKey,
		diagnostics:   cfg.Diagnostics.Enabled,
		dev:           cfg.Runtime.Dev,
		port:          cfg.Server.Port,
		log:           logger,
	}
}

// Router assembles the full route tree with the middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(CORS(s.extensionID, s.siteURL))

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.pageHandler(landingPage))
	r.Get("/auth/verify", s.pageHandler(verifyPage))
	r.Get("/auth/reset-password", s.pageHandler(resetPasswordPage))
	r.Get("/success", s.pageHandler(successPage))
	r.Get("/cancel", s.pageHandler(cancelPage))

	r.Route("/api", func(api chi.Router) {
		api.Use(Timeout(apiTimeout))

		api.Get("/health", s.handleHealth)
		api.Post("/checkout", s.handleCheckout)
		api.Post("/webhooks/stripe", s.handleStripeWebhook)
		if s.diagnostics {
			api.Post("/test-user", s.handleTestUser)
		}

		api.Group(func(protected chi.Router) {
			protected.Use(RequireUser(s.auth, s.log))
			protected.Post("/subscription/cancel", s.handleCancelSubscription)
			protected.Post("/virtual-try-on", s.handleTryOn)
			protected.Get("/virtual-try-on", s.handleTryOnHistory)
			protected.Post("/user/delete", s.handleDeleteAccount)
		})
	})

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.port).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
