// Package handlers provides HTTP handlers for the scheduling API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/api/middleware"
	"github.com/kampungcare/medsched/internal/cultural/engine"
	"github.com/kampungcare/medsched/internal/cultural/profile"
	"github.com/kampungcare/medsched/internal/domain/schedule"
	"github.com/kampungcare/medsched/internal/observability/metrics"
	"github.com/kampungcare/medsched/internal/prayertime"
	"github.com/kampungcare/medsched/pkg/circuitbreaker"
	"github.com/kampungcare/medsched/pkg/idempotency"
)

// ScheduleHandler handles schedule endpoints
type ScheduleHandler struct {
	engine  *engine.Engine
	repo    *schedule.Repository
	prayers *prayertime.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewScheduleHandler creates a new handler
func NewScheduleHandler(eng *engine.Engine, repo *schedule.Repository, prayers *prayertime.Client, m *metrics.Metrics, logger *zap.Logger) *ScheduleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{
		engine:  eng,
		repo:    repo,
		prayers: prayers,
		metrics: m,
		logger:  logger,
	}
}

// Routes returns the handler routes
func (h *ScheduleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Generate)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/events", h.GetEvents)
	r.Post("/{id}/deliver", h.Deliver)
	r.Post("/{id}/cancel", h.Cancel)
	return r
}

// GenerateRequest is the request body for generating a schedule
type GenerateRequest struct {
	PatientID   string                   `json:"patient_id"`
	Medications []profile.Medication     `json:"medications"`
	Profile     *profile.CulturalProfile `json:"profile"`
	Household   profile.Household        `json:"household"`
	Occasion    string                   `json:"occasion,omitempty"`
	PrayerZone  string                   `json:"prayer_zone,omitempty"`
	// Supersedes names the prior schedule this one replaces, typically the
	// previous day's schedule for the same household.
	Supersedes string `json:"supersedes,omitempty"`
}

// GenerateResponse is the response for generating a schedule
type GenerateResponse struct {
	ID             string        `json:"id"`
	Status         string        `json:"status"`
	IdempotencyKey string        `json:"idempotency_key"`
	Result         engine.Result `json:"result"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Generate handles POST /schedules
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("schedule-handler")
	ctx, span := tracer.Start(ctx, "generate_schedule")
	defer span.End()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.PatientID == "" {
		h.jsonError(w, "patient_id is required", http.StatusBadRequest)
		return
	}
	if len(req.Medications) == 0 {
		h.jsonError(w, "medications are required", http.StatusBadRequest)
		return
	}

	scheduleID := uuid.New().String()
	span.SetAttributes(attribute.String("schedule_id", scheduleID))

	var medIDs []string
	for _, m := range req.Medications {
		medIDs = append(medIDs, m.ID)
	}
	culture := ""
	if req.Profile != nil {
		culture = string(req.Profile.PrimaryCulture)
	}
	idemKey := idempotency.GenerateKey(
		req.PatientID, idempotency.MedicationsDigest(medIDs), culture, time.Now().UTC())

	// Resolve prayer windows up front so the engine stays free of I/O.
	// A provider failure is not fatal: buffering just degrades.
	var prayerWindows []profile.PrayerWindow
	if h.prayers != nil && req.PrayerZone != "" && req.Profile != nil && req.Profile.Preferences.Prayer.Enabled {
		windows, err := h.prayers.DailyWindows(ctx, req.PrayerZone)
		if err != nil {
			h.logger.Warn("prayer window resolution failed",
				zap.String("zone", req.PrayerZone), zap.Error(err))
			if h.metrics != nil {
				h.metrics.PrayerTimeFetches.WithLabelValues("error").Inc()
			}
		} else {
			prayerWindows = windows
			if h.metrics != nil {
				h.metrics.PrayerTimeFetches.WithLabelValues("ok").Inc()
			}
		}
		if h.metrics != nil {
			h.metrics.CircuitBreakerState.WithLabelValues("prayer-time-provider").
				Set(breakerStateValue(h.prayers.BreakerState()))
		}
	}

	start := time.Now()
	result := h.engine.GenerateSchedule(req.Medications, req.Profile, req.Household, engine.Options{
		OccasionKey:   req.Occasion,
		PrayerWindows: prayerWindows,
	})
	if h.metrics != nil {
		h.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
		if result.Fallback {
			h.metrics.SchedulesFellBack.Inc()
		} else {
			h.metrics.SchedulesGenerated.Inc()
		}
		h.metrics.ConflictsDetected.Add(float64(len(result.Conflicts)))
		for _, section := range result.DegradedSections {
			h.metrics.DegradedSections.WithLabelValues(section).Inc()
		}
	}

	agg := schedule.NewAggregate(scheduleID)
	requestPayload, _ := json.Marshal(req)
	if err := agg.Request(&schedule.ScheduleRequestedData{
		ScheduleID:      scheduleID,
		PatientID:       req.PatientID,
		Culture:         culture,
		MedicationCount: len(req.Medications),
		IdempotencyKey:  idemKey,
		OccasionKey:     req.Occasion,
		RequestPayload:  requestPayload,
		RequestedAt:     time.Now().UTC(),
	}); err != nil {
		h.logger.Error("aggregate request failed", zap.Error(err))
		if h.metrics != nil {
			h.metrics.SchedulesFailed.Inc()
		}
		h.jsonError(w, "failed to record schedule request", http.StatusInternalServerError)
		return
	}

	if result.Fallback {
		if err := agg.MarkFellBack("personalization unavailable", len(result.OptimizedSchedule)); err != nil {
			h.logger.Error("aggregate fallback failed", zap.Error(err))
		}
	} else {
		schedulePayload, _ := json.Marshal(result)
		if err := agg.MarkGenerated(&schedule.ScheduleGeneratedData{
			ScheduleID:          scheduleID,
			PatientID:           req.PatientID,
			DoseCount:           len(result.OptimizedSchedule),
			ConflictCount:       len(result.Conflicts),
			RecommendationCount: len(result.Recommendations),
			DegradedSections:    result.DegradedSections,
			SchedulePayload:     schedulePayload,
			GeneratedAt:         time.Now().UTC(),
		}); err != nil {
			h.logger.Error("aggregate generate failed", zap.Error(err))
		}
	}

	if err := h.repo.Save(ctx, agg); err != nil {
		h.logger.Error("save failed", zap.Error(err))
		if h.metrics != nil {
			h.metrics.SchedulesFailed.Inc()
		}
		h.jsonError(w, "failed to save schedule", http.StatusInternalServerError)
		return
	}

	// Mark the replaced schedule superseded. Best effort: the new schedule
	// is already saved, so a failure here only leaves the old one current.
	if req.Supersedes != "" {
		if prior, err := h.repo.Load(ctx, req.Supersedes); err != nil {
			h.logger.Warn("superseded schedule not found",
				zap.String("supersedes", req.Supersedes), zap.Error(err))
		} else if err := prior.Supersede(scheduleID); err != nil {
			h.logger.Warn("supersede rejected",
				zap.String("supersedes", req.Supersedes), zap.Error(err))
		} else if err := h.repo.Save(ctx, prior); err != nil {
			h.logger.Error("supersede save failed",
				zap.String("supersedes", req.Supersedes), zap.Error(err))
		}
	}

	h.logger.Info("schedule generated",
		zap.String("id", scheduleID),
		zap.String("patient_id", req.PatientID),
		zap.String("request_id", middleware.GetRequestID(ctx)),
		zap.Bool("fallback", result.Fallback),
		zap.Int("conflicts", len(result.Conflicts)),
	)

	resp := GenerateResponse{
		ID:             scheduleID,
		Status:         string(agg.Status()),
		IdempotencyKey: idemKey,
		Result:         result,
		CreatedAt:      time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// Get handles GET /schedules/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	agg, err := h.repo.Load(ctx, id)
	if err != nil {
		h.jsonError(w, "schedule not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{
		"id":         agg.ID(),
		"status":     agg.Status(),
		"patient_id": agg.PatientID(),
		"doses":      agg.DoseCount(),
		"version":    agg.Version(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetEvents handles GET /schedules/{id}/events
func (h *ScheduleHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	events, err := h.repo.GetEvents(ctx, id)
	if err != nil {
		h.jsonError(w, "failed to get events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

// DeliverRequest is the request for recording schedule delivery
type DeliverRequest struct {
	Channel   string `json:"channel"`
	MessageID string `json:"message_id"`
}

// Deliver handles POST /schedules/{id}/deliver
func (h *ScheduleHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req DeliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	agg, err := h.repo.Load(ctx, id)
	if err != nil {
		h.jsonError(w, "schedule not found", http.StatusNotFound)
		return
	}

	if err := agg.MarkDelivered(req.Channel, req.MessageID); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Save(ctx, agg); err != nil {
		h.jsonError(w, "failed to save", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"id":      agg.ID(),
		"status":  agg.Status(),
		"channel": req.Channel,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CancelRequest is the request for cancelling a schedule
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /schedules/{id}/cancel
func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		h.jsonError(w, "reason is required", http.StatusBadRequest)
		return
	}

	agg, err := h.repo.Load(ctx, id)
	if err != nil {
		h.jsonError(w, "schedule not found", http.StatusNotFound)
		return
	}

	if err := agg.Cancel(req.Reason); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Save(ctx, agg); err != nil {
		h.jsonError(w, "failed to save", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"id":     agg.ID(),
		"status": agg.Status(),
		"reason": req.Reason,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// breakerStateValue maps a breaker state to its gauge value
// (0=closed, 1=open, 2=half-open).
func breakerStateValue(s circuitbreaker.State) float64 {
	switch s {
	case circuitbreaker.StateOpen:
		return 1
	case circuitbreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func (h *ScheduleHandler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
