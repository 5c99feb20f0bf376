// Package widget models the address-autocomplete collaborator: a "place
// changed" subscription mechanism and an accessor for the currently
// selected place record.
package widget

import (
	"slices"
	"sync"

	"place-intake/internal/common/logger"
	"place-intake/internal/models"
)

// DefaultAllowedTypes matches the category restriction the travel tracker
// frontend configures on its autocomplete widget.
var DefaultAllowedTypes = []string{"tourist_attraction", "point_of_interest"}

// Options configure a widget instance.
type Options struct {
	AllowedTypes []string
}

// Autocomplete is the contract the selection handler subscribes to.
type Autocomplete interface {
	OnPlaceChanged(fn func())
	Place() *models.Place
}

// EventWidget is the server-side stand-in for the browser widget: each
// incoming selection event becomes one "place changed" notification.
// Dispatch is serialized, so a session's listeners always run on a single
// event path at a time.
type EventWidget struct {
	opts   Options
	logger logger.Logger

	dispatchMu sync.Mutex

	mu        sync.Mutex
	current   *models.Place
	listeners []func()
}

func NewEventWidget(opts Options, log logger.Logger) *EventWidget {
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = DefaultAllowedTypes
	}
	return &EventWidget{opts: opts, logger: log}
}

// OnPlaceChanged registers fn to run after every accepted selection.
func (w *EventWidget) OnPlaceChanged(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Place returns the most recently accepted selection, or nil before the
// first one.
func (w *EventWidget) Place() *models.Place {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Select records p as the current selection and notifies listeners.
// Records whose category tags do not intersect the allowed set are
// dropped, mirroring the type restriction the real widget enforces at
// construction. Records carrying no tags at all are accepted.
func (w *EventWidget) Select(p *models.Place) {
	if p == nil {
		return
	}
	if !w.allowed(p) {
		w.logger.Debug("selection outside allowed categories, dropped", map[string]interface{}{
			"name":  p.Name,
			"types": p.Types,
		})
		return
	}

	w.dispatchMu.Lock()
	defer w.dispatchMu.Unlock()

	w.mu.Lock()
	w.current = p
	listeners := slices.Clone(w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (w *EventWidget) allowed(p *models.Place) bool {
	if len(p.Types) == 0 {
		return true
	}
	for _, t := range p.Types {
		if slices.Contains(w.opts.AllowedTypes, t) {
			return true
		}
	}
	return false
}
