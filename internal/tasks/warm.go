package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"golang.org/x/time/rate"
)

// WarmOpts contains configuration for bulk cache warming.
type WarmOpts struct {
	NumWorkers   int     // Concurrent resolve workers (default: 5, capped at 10)
	RateLimit    float64 // Track fetches per second against the registry (default: 5)
	ManifestPath string  // Optional JSON manifest destination; empty skips the write
}

// WarmOutcome records one warm attempt.
type WarmOutcome struct {
	TrackID   string `json:"trackID"`
	Matched   bool   `json:"matched"`
	SpotifyID string `json:"spotifyID,omitempty"`
	Error     string `json:"error,omitempty"`
}

// WarmResult summarizes a bulk warm run.
//
// Unmatched counts confirmed absences, which still warm the negative cache;
// Failed counts attempts that produced no cacheable outcome at all.
type WarmResult struct {
	Total     int           `json:"total"`
	Resolved  int           `json:"resolved"`
	Unmatched int           `json:"unmatched"`
	Failed    int           `json:"failed"`
	Outcomes  []WarmOutcome `json:"outcomes"`
}

// warmJob carries one fetched canonical track to the resolve workers.
type warmJob struct {
	id    string
	track *models.Track
}

// Warm resolves many track IDs concurrently to pre-populate the resolution cache.
//
// This method implements a worker pool pattern: a rate-limited producer fetches
// canonical tracks from the registry while workers run resolutions. Partial
// failures are recorded per track rather than aborting the run, and an optional
// manifest file summarizes the outcomes.
func (e *TrackEngine) Warm(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts WarmOpts) (*WarmResult, error) {
	if e.directory == nil {
		return nil, fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &WarmResult{
		Total:    len(ids),
		Outcomes: make([]WarmOutcome, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan warmJob, len(ids))
	outcomes := make(chan WarmOutcome, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.warmWorker(ctx, &wg, jobs, outcomes)
	}

	go func() {
		e.sendProgress(progress, warmStartUpdate(len(ids)))
		for _, trackID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			track, err := e.directory.Fetch(ctx, trackID)
			if err != nil {
				outcomes <- WarmOutcome{
					TrackID: trackID,
					Error:   fmt.Sprintf("failed to fetch track: %v", err),
				}
				continue
			}

			jobs <- warmJob{id: trackID, track: track}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		result.Outcomes = append(result.Outcomes, outcome)

		switch {
		case outcome.Matched:
			result.Resolved++
			e.sendProgress(progress, warmResolvedUpdate(completed, len(ids), outcome.TrackID))
		case outcome.Error == "":
			result.Unmatched++
			e.sendProgress(progress, warmUnmatchedUpdate(completed, len(ids), outcome.TrackID))
		default:
			result.Failed++
			e.sendProgress(progress, warmFailedUpdate(completed, len(ids), outcome.TrackID, errors.New(outcome.Error)))
		}
	}

	if opts.ManifestPath != "" {
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return result, fmt.Errorf("warm completed but failed to marshal manifest: %w", err)
		}
		if err := os.WriteFile(opts.ManifestPath, data, 0644); err != nil {
			return result, fmt.Errorf("warm completed but failed to write manifest: %w", err)
		}
	}

	return result, nil
}

// warmWorker resolves tracks from the jobs channel and reports outcomes.
func (e *TrackEngine) warmWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan warmJob, outcomes chan<- WarmOutcome) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := WarmOutcome{TrackID: job.id}

		match, err := e.resolver.Resolve(ctx, job.track)
		switch {
		case err == nil:
			outcome.Matched = true
			outcome.SpotifyID = match.ID
		case errors.Is(err, shared.ErrTrackNotFound):
			// Confirmed absence: the negative cache entry is the point.
		default:
			outcome.Error = err.Error()
		}

		outcomes <- outcome
	}
}
