package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/http/middleware"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/usecase"
)

type LeadHandler struct {
	CaptureUC      *usecase.CaptureLeadUseCase
	GetUC          *usecase.GetLeadUseCase
	ChangeStatusUC *usecase.ChangeLeadStatusUseCase
	DeleteUC       *usecase.DeleteLeadUseCase
	rateLimiter    *RateLimiter
}

func NewLeadHandler(captureUC *usecase.CaptureLeadUseCase, getUC *usecase.GetLeadUseCase, changeStatusUC *usecase.ChangeLeadStatusUseCase, deleteUC *usecase.DeleteLeadUseCase) *LeadHandler {
	return &LeadHandler{
		CaptureUC:      captureUC,
		GetUC:          getUC,
		ChangeStatusUC: changeStatusUC,
		DeleteUC:       deleteUC,
		rateLimiter:    NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

// Capture é o endpoint público de captação (formulários do site).
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"success": false,
			"message": "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid JSON",
		})
		return
	}

	output, err := h.CaptureUC.Execute(ctx, input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured(input.Source)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"lead":    output,
	})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	lead, err := h.GetUC.Execute(r.Context(), leadID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"lead":    lead,
	})
}

func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid JSON",
		})
		return
	}

	lead, err := h.ChangeStatusUC.Execute(r.Context(), usecase.ChangeLeadStatusInput{
		LeadID: leadID,
		Status: entity.LeadStatus(body.Status),
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"lead":    lead,
	})
}

// Delete desativa o lead (soft delete).
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	if err := h.DeleteUC.Execute(r.Context(), leadID); err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Lead desativado",
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
