package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/model"
	"github.com/lukasssicevs/drippler-web/internal/infra/logging"
	"github.com/lukasssicevs/drippler-web/internal/infra/metrics"
	"github.com/lukasssicevs/drippler-web/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// respondError maps domain errors onto the HTTP surface. Everything not
// recognized is an upstream or internal failure and surfaces as 500 with
// the raw message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var lim *domain.LimitExceededError
	switch {
	case errors.As(err, &lim):
		remaining := lim.MonthlyLimit - lim.CurrentCount
		if remaining < 0 {
			remaining = 0
		}
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":                "Generation limit exceeded",
			"message":              lim.UpgradeMessage(),
			"planType":             lim.PlanType,
			"maxGenerations":       lim.MonthlyLimit,
			"generationCount":      lim.CurrentCount,
			"remainingGenerations": remaining,
		})
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":   "Generation limit exceeded",
			"message": "You have reached your monthly generation limit.",
		})
	case errors.Is(err, domain.ErrProhibitedContent):
		writeError(w, http.StatusBadRequest, "The image was flagged as inappropriate. Please try different images.")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, domain.ErrNoActiveSubscription):
		writeError(w, http.StatusNotFound, "No active subscription found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrGenerationBusy):
		writeError(w, http.StatusTooManyRequests, "Another generation is already in progress. Please wait for it to finish.")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Image generation service is not configured")
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "drippler-web",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerEmail  string `json:"customer_email"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	url, err := s.billing.CreateCheckout(r.Context(), req.CustomerEmail, req.IdempotencyKey)
	if err != nil {
		metrics.IncCheckoutSession("failed")
		s.respondError(w, r, err)
		return
	}
	metrics.IncCheckoutSession("created")
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	res, err := s.billing.Cancel(r.Context(), user.ID)
	if err != nil {
		metrics.IncSubscriptionCancel("failed")
		s.respondError(w, r, err)
		return
	}
	metrics.IncSubscriptionCancel("canceled")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription will be canceled at the end of the current billing period",
		"data": map[string]any{
			"subscriptionId":    res.SubscriptionID,
			"cancelAtPeriodEnd": res.CancelAtPeriodEnd,
		},
	})
}

func (s *Server) handleTryOn(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		UserImageURL     string `json:"userImageUrl"`
		ClothingImageURL string `json:"clothingImageUrl"`
		ClothingName     string `json:"clothingName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start := time.Now()
	res, err := s.tryOn.Generate(r.Context(), user.ID, usecase.GenerateRequest{
		UserImageURL:     req.UserImageURL,
		ClothingImageURL: req.ClothingImageURL,
		ClothingName:     req.ClothingName,
	})
	metrics.ObserveGenerationLatency(float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		metrics.IncGeneration(generationOutcome(err), "")
		s.respondError(w, r, err)
		return
	}
	metrics.IncGeneration("success", string(res.PlanType))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"generatedImageUrl":    res.GeneratedImageURL,
			"generatedImageBase64": res.GeneratedImageBase64,
			"generationId":         res.GenerationID,
			"generationCount":      res.GenerationCount,
			"remainingGenerations": res.RemainingGenerations,
			"monthlyLimit":         res.MonthlyLimit,
			"planType":             res.PlanType,
		},
		"message": "Virtual try-on generated successfully",
	})
}

func generationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return "limit"
	case errors.Is(err, domain.ErrProhibitedContent):
		return "prohibited"
	case errors.Is(err, domain.ErrGenerationBusy):
		return "busy"
	default:
		return "error"
	}
}

func (s *Server) handleTryOnHistory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	res, err := s.tryOn.History(r.Context(), user.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	gens := res.Generations
	if gens == nil {
		gens = []*model.Generation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"generations":          gens,
			"generationCount":      res.GenerationCount,
			"maxGenerations":       res.MaxGenerations,
			"remainingGenerations": res.RemainingGenerations,
			"hasReachedLimit":      res.HasReachedLimit,
			"planType":             res.PlanType,
			"subscriptionActive":   res.SubscriptionActive,
		},
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := s.account.Delete(r.Context(), user.ID); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account deleted successfully",
	})
}

func (s *Server) handleTestUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken   string `json:"accessToken"`
		RefreshToken  string `json:"refreshToken"`
		CustomMessage string `json:"customMessage"`
		ExtensionID   string `json:"extensionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logging.With(r.Context(), s.log).Debug().
		Str("token", logging.Redact(req.AccessToken, s.dev)).
		Str("extension_id", req.ExtensionID).
		Msg("token diagnostic requested")

	user, err := s.account.Diagnose(r.Context(), req.AccessToken, req.CustomMessage)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Token is valid",
		"user": map[string]any{
			"id":             user.ID,
			"email":          user.Email,
			"emailConfirmed": user.EmailConfirmed(),
			"createdAt":      user.CreatedAt,
			"lastSignInAt":   user.LastSignInAt,
		},
		"metadata": user.UserMetadata,
	})
}
