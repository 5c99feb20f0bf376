// Package backend talks to the travel backend that records submitted
// destinations.
package backend

import (
	"context"
	"sync"
	"time"

	httpclient "place-intake/internal/common/http"
	"place-intake/internal/common/logger"
	"place-intake/internal/common/metrics"
	"place-intake/internal/models"
)

type Config struct {
	// URL is the full submission endpoint.
	URL     string
	Timeout time.Duration
}

// Submitter forwards extracted place payloads to the backend. Submission
// is fire-and-forget: SubmitAsync returns before the request completes
// and the result is deliberately not awaited by callers; failures are
// logged and counted only.
type Submitter struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewSubmitter(config *Config, log logger.Logger) *Submitter {
	return &Submitter{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "submitter"}),
	}
}

// SubmitAsync launches the submission in the background and returns
// immediately.
func (s *Submitter) SubmitAsync(payload models.PlacePayload) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Submit(context.Background(), payload); err != nil {
			s.logger.WithError(err).Error("submission failed", map[string]interface{}{
				"destination": payload.DestinationName,
			})
		}
	}()
}

// Submit performs one synchronous submission. The async path funnels
// through here; tests use it directly.
func (s *Submitter) Submit(ctx context.Context, payload models.PlacePayload) error {
	start := time.Now()
	err := s.client.PostJSON(ctx, s.config.URL, payload)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SubmissionFailures.WithLabelValues("http_error").Inc()
		return err
	}
	return nil
}

// Wait blocks until all in-flight submissions finish. Used during
// shutdown; the returned channel pattern lets callers bound the wait.
func (s *Submitter) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
