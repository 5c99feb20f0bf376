package selection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"place-intake/internal/common/logger"
	"place-intake/internal/models"
	"place-intake/internal/widget"
)

// ==========================
// Test Helper Functions
// ==========================

type recordingSubmitter struct {
	mu       sync.Mutex
	payloads []models.PlacePayload
}

func (s *recordingSubmitter) SubmitAsync(payload models.PlacePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
}

func (s *recordingSubmitter) Payloads() []models.PlacePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PlacePayload(nil), s.payloads...)
}

type failingSeen struct{}

func (failingSeen) Add(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func (failingSeen) Close(context.Context) error { return nil }

type staticWidget struct {
	place *models.Place
	fns   []func()
}

func (w *staticWidget) OnPlaceChanged(fn func()) { w.fns = append(w.fns, fn) }
func (w *staticWidget) Place() *models.Place     { return w.place }
func (w *staticWidget) fire() {
	for _, fn := range w.fns {
		fn()
	}
}

func setupHandler(t *testing.T, seen SeenStore) (*widget.EventWidget, *recordingSubmitter) {
	t.Helper()

	log := logger.NewTestLogger(t)
	w := widget.NewEventWidget(widget.Options{}, log)
	submitter := &recordingSubmitter{}

	h := NewHandler(&Config{StoreTimeout: time.Second}, w, seen, submitter, nil, log)
	h.Install()

	return w, submitter
}

func eiffelTower() *models.Place {
	return &models.Place{
		PlaceID: "ChIJLU7jZClu5kcR4PcOOO6p3I0",
		Name:    "Eiffel Tower",
		Geometry: &models.Geometry{
			Location: models.LatLng{Lat: 48.8584, Lng: 2.2945},
		},
		AddressComponents: []models.AddressComponent{
			{LongName: "Paris", ShortName: "Paris", Types: []string{"locality", "political"}},
			{LongName: "France", ShortName: "FR", Types: []string{"country", "political"}},
		},
		Types: []string{"tourist_attraction"},
	}
}

// ==========================
// Selection Pipeline
// ==========================

func TestHandler_SubmitsExtractedPayload(t *testing.T) {
	w, submitter := setupHandler(t, NewMemorySeen())

	w.Select(eiffelTower())

	payloads := submitter.Payloads()
	assert.Len(t, payloads, 1)
	assert.Equal(t, models.PlacePayload{
		DestinationName: "Eiffel Tower",
		City:            "Paris",
		Country:         "France",
		Coordinates:     [2]float64{48.8584, 2.2945},
		PlaceID:         "ChIJLU7jZClu5kcR4PcOOO6p3I0",
	}, payloads[0])
}

func TestHandler_DuplicateSelectionSubmitsOnce(t *testing.T) {
	w, submitter := setupHandler(t, NewMemorySeen())

	w.Select(eiffelTower())
	w.Select(eiffelTower())

	assert.Len(t, submitter.Payloads(), 1)
}

func TestHandler_FallbackKeyDeduplicates(t *testing.T) {
	w, submitter := setupHandler(t, NewMemorySeen())

	noID := func() *models.Place {
		return &models.Place{
			Name: "X",
			Geometry: &models.Geometry{
				Location: models.LatLng{Lat: 1, Lng: 2},
			},
		}
	}

	w.Select(noID())
	w.Select(noID())

	payloads := submitter.Payloads()
	assert.Len(t, payloads, 1)
	assert.Equal(t, "X", payloads[0].DestinationName)
	assert.Empty(t, payloads[0].PlaceID)
}

func TestHandler_DistinctPlacesEachSubmit(t *testing.T) {
	w, submitter := setupHandler(t, NewMemorySeen())

	w.Select(eiffelTower())

	louvre := eiffelTower()
	louvre.PlaceID = "ChIJD3uTd9hx5kcR1IQvGfr8dbk"
	louvre.Name = "Louvre Museum"
	w.Select(louvre)

	assert.Len(t, submitter.Payloads(), 2)
}

func TestHandler_MissingGeometryIsNoOp(t *testing.T) {
	w, submitter := setupHandler(t, NewMemorySeen())

	place := eiffelTower()
	place.Geometry = nil
	w.Select(place)

	assert.Empty(t, submitter.Payloads())

	// The skipped event leaves no dedup trace; a later complete record
	// for the same place still goes through.
	w.Select(eiffelTower())
	assert.Len(t, submitter.Payloads(), 1)
}

func TestHandler_SeenStoreErrorDropsSelection(t *testing.T) {
	w, submitter := setupHandler(t, failingSeen{})

	w.Select(eiffelTower())

	assert.Empty(t, submitter.Payloads())
}

func TestHandler_NoSelectionIsNoOp(t *testing.T) {
	log := logger.NewTestLogger(t)
	w := &staticWidget{}
	submitter := &recordingSubmitter{}

	h := NewHandler(&Config{StoreTimeout: time.Second}, w, NewMemorySeen(), submitter, nil, log)
	h.Install()

	// Notification fires while the widget has no current place.
	w.fire()

	assert.Empty(t, submitter.Payloads())
}

func TestHandler_TeardownClosesSeenStore(t *testing.T) {
	seen := NewMemorySeen()
	_, err := seen.Add(context.Background(), "p1")
	assert.NoError(t, err)

	log := logger.NewTestLogger(t)
	h := NewHandler(&Config{StoreTimeout: time.Second}, &staticWidget{}, seen, &recordingSubmitter{}, nil, log)

	assert.NoError(t, h.Teardown(context.Background()))

	added, err := seen.Add(context.Background(), "p1")
	assert.NoError(t, err)
	assert.True(t, added)
}
