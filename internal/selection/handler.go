// Package selection implements the place-selection intake handler: one
// subscription per session widget, session-scoped deduplication, field
// extraction, and fire-and-forget forwarding to the travel backend.
package selection

import (
	"context"
	"time"

	"place-intake/internal/common/logger"
	"place-intake/internal/common/metrics"
	"place-intake/internal/common/observability"
	"place-intake/internal/models"
	"place-intake/internal/places"
	"place-intake/internal/widget"
)

// Skip reasons recorded on the skipped-selections counter.
const (
	SkipGeometryMissing = "geometry_missing"
	SkipSeenStoreError  = "seen_store_error"
)

// Submitter forwards extracted payloads to the backend. SubmitAsync
// returns before the request completes; the handler never observes the
// outcome.
type Submitter interface {
	SubmitAsync(payload models.PlacePayload)
}

type Config struct {
	// StoreTimeout bounds each seen-store call.
	StoreTimeout time.Duration
}

// Handler owns the per-session selection pipeline. Its seen-set is
// created with the session and discarded by Teardown.
type Handler struct {
	config    *Config
	widget    widget.Autocomplete
	seen      SeenStore
	submitter Submitter
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(
	config *Config,
	w widget.Autocomplete,
	seen SeenStore,
	submitter Submitter,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:    config,
		widget:    w,
		seen:      seen,
		submitter: submitter,
		obs:       obs,
		logger:    log,
	}
}

// Install attaches the "place changed" subscription to the widget. Call
// once at session installation.
func (h *Handler) Install() {
	h.widget.OnPlaceChanged(h.onPlaceChanged)
}

// Teardown discards the session's deduplication state.
func (h *Handler) Teardown(ctx context.Context) error {
	return h.seen.Close(ctx)
}

func (h *Handler) onPlaceChanged() {
	start := time.Now()
	outcome := h.process()
	h.obs.RecordSelectionProcessed(context.Background(), outcome)
	h.obs.RecordSelectionDuration(context.Background(), time.Since(start), outcome)
}

func (h *Handler) process() string {
	place := h.widget.Place()
	if place == nil {
		return "empty"
	}

	// No coordinates means no payload and no fallback key; drop the
	// event explicitly instead of inheriting the source's crash.
	if !place.HasGeometry() {
		h.logger.Warn("selection missing geometry, skipped", map[string]interface{}{
			"name":    place.Name,
			"placeId": place.PlaceID,
		})
		metrics.SelectionsSkipped.WithLabelValues(SkipGeometryMissing).Inc()
		return "skipped"
	}

	key, ok := places.SelectionKey(place)
	if !ok {
		metrics.SelectionsSkipped.WithLabelValues(SkipGeometryMissing).Inc()
		return "skipped"
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.StoreTimeout)
	defer cancel()

	added, err := h.seen.Add(ctx, key)
	if err != nil {
		// Dedup state is unknown; submitting could break the
		// at-most-once guarantee, so the event is dropped.
		h.logger.WithError(err).Error("seen store unavailable, selection dropped", map[string]interface{}{
			"key": key,
		})
		metrics.SelectionsSkipped.WithLabelValues(SkipSeenStoreError).Inc()
		return "skipped"
	}
	if !added {
		h.logger.Debug("duplicate selection ignored", map[string]interface{}{
			"key": key,
		})
		metrics.SelectionsDuplicate.Inc()
		return "duplicate"
	}

	payload := places.Payload(place)
	h.submitter.SubmitAsync(payload)
	metrics.SelectionsSubmitted.Inc()

	h.logger.Info("selection submitted", map[string]interface{}{
		"destination": payload.DestinationName,
		"city":        payload.City,
		"country":     payload.Country,
		"key":         key,
	})
	return "submitted"
}
