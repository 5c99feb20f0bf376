// Package sessions owns the lifecycle of page sessions. A session is
// installed when the frontend announces itself, carries its own widget,
// seen-set and selection handler, and is discarded on explicit teardown
// or after sitting idle past the configured TTL.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"place-intake/internal/common/errors"
	"place-intake/internal/common/logger"
	"place-intake/internal/common/metrics"
	"place-intake/internal/common/observability"
	"place-intake/internal/models"
	"place-intake/internal/selection"
	"place-intake/internal/widget"
)

type Config struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	StoreTimeout  time.Duration
}

// SeenFactory builds the deduplication store for a new session.
type SeenFactory func(sessionID string) selection.SeenStore

type entry struct {
	widget    *widget.EventWidget
	handler   *selection.Handler
	lastEvent time.Time
}

type Registry struct {
	config     *Config
	widgetOpts widget.Options
	seenFor    SeenFactory
	submitter  selection.Submitter
	obs        *observability.Observability
	logger     logger.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRegistry(
	config *Config,
	widgetOpts widget.Options,
	seenFor SeenFactory,
	submitter selection.Submitter,
	obs *observability.Observability,
	log logger.Logger,
) *Registry {
	return &Registry{
		config:     config,
		widgetOpts: widgetOpts,
		seenFor:    seenFor,
		submitter:  submitter,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "sessions"}),
		sessions:   make(map[string]*entry),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Install creates a session and attaches its selection handler. An empty
// id asks the registry to generate one.
func (r *Registry) Install(id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return "", errors.NewSessionExistsError(id)
	}

	w := widget.NewEventWidget(r.widgetOpts, r.logger)
	h := selection.NewHandler(
		&selection.Config{StoreTimeout: r.config.StoreTimeout},
		w,
		r.seenFor(id),
		r.submitter,
		r.obs,
		r.logger.WithFields(map[string]interface{}{"sessionId": id}),
	)
	h.Install()

	r.sessions[id] = &entry{widget: w, handler: h, lastEvent: time.Now()}
	metrics.SessionsActive.Set(float64(len(r.sessions)))

	r.logger.Info("session installed", map[string]interface{}{"sessionId": id})
	return id, nil
}

// Ensure installs a session if it is not already present. Used by the
// Kafka source, where clients do not announce sessions up front.
func (r *Registry) Ensure(id string) error {
	r.mu.Lock()
	_, exists := r.sessions[id]
	r.mu.Unlock()
	if exists {
		return nil
	}
	_, err := r.Install(id)
	if stdErr, ok := err.(*errors.StandardError); ok && stdErr.Code == errors.ErrCodeSessionExists {
		return nil // lost the race, session is there
	}
	return err
}

// Dispatch routes a place record to its session's widget.
func (r *Registry) Dispatch(id string, p *models.Place) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastEvent = time.Now()
	}
	r.mu.Unlock()

	if !ok {
		return errors.NewSessionNotFoundError(id)
	}

	e.widget.Select(p)
	return nil
}

// Teardown removes the session and discards its seen-set.
func (r *Registry) Teardown(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		metrics.SessionsActive.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if !ok {
		return errors.NewSessionNotFoundError(id)
	}

	if err := e.handler.Teardown(ctx); err != nil {
		r.logger.WithError(err).Warn("seen-set discard failed", map[string]interface{}{"sessionId": id})
	}
	r.logger.Info("session torn down", map[string]interface{}{"sessionId": id})
	return nil
}

// Len returns the number of installed sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start runs the idle-eviction sweep until Stop is called. Pages that
// navigate away never say goodbye, so idle sessions are reaped here.
func (r *Registry) Start() {
	r.started = true
	go func() {
		defer close(r.doneCh)
		ticker := time.NewTicker(r.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.evictIdle()
			}
		}
	}()
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.config.IdleTTL)

	r.mu.Lock()
	var expired []string
	for id, e := range r.sessions {
		if e.lastEvent.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.StoreTimeout)
		if err := r.Teardown(ctx, id); err == nil {
			r.logger.Info("idle session evicted", map[string]interface{}{"sessionId": id})
		}
		cancel()
	}
}

// Stop halts the sweep and tears down all remaining sessions.
func (r *Registry) Stop(ctx context.Context) {
	close(r.stopCh)
	if r.started {
		<-r.doneCh
	}

	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_ = r.Teardown(ctx, id)
	}
}
