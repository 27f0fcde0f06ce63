// package session manages the self-renewing client-credentials token
// lifecycle for the Spotify Web API.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// refreshMargin is how long before provider-side expiry the next token is
// requested. A grant whose lifetime is shorter than the margin is refreshed
// immediately.
const refreshMargin = 60 * time.Second

// Token is the outcome of one client-credentials grant.
type Token struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// TokenGranter exchanges the configured credential pair for a bearer token.
type TokenGranter interface {
	Grant(ctx context.Context) (*Token, error)
}

// TokenSink receives every freshly granted access token. Implemented by the
// Spotify search client.
type TokenSink interface {
	SetAccessToken(token string)
}

// attempt is one refresh cycle. done closes when the cycle completes and err
// carries its outcome for every caller that joined the wait.
type attempt struct {
	done chan struct{}
	err  error
}

// Session owns one process-wide credential set: it grants lazily, pushes each
// token into its sink, and re-grants itself shortly before expiry.
//
// Readiness is a broadcast: the ready channel closes exactly once, on the
// first successful grant. An unconfigured session rejects readiness checks
// immediately instead of making any caller wait.
type Session struct {
	granter    TokenGranter
	sink       TokenSink
	logger     *log.Logger
	configured bool

	ready     chan struct{}
	readyOnce sync.Once

	mu            sync.Mutex
	authenticated bool
	token         string
	inflight      *attempt
	timer         *time.Timer
}

// New creates a session for the given granter and sink. configured reports
// whether a credential pair was supplied at startup; when false every
// readiness check fails fast with a service-unavailable error.
func New(granter TokenGranter, sink TokenSink, configured bool, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		granter:    granter,
		sink:       sink,
		configured: configured,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Configured reports whether credentials were supplied at startup.
func (s *Session) Configured() bool {
	return s.configured
}

// Authenticated reports whether the session has held a valid token at least once.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Token returns the most recently granted access token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Ready blocks until the session holds a valid token, the in-flight grant
// fails, or ctx is done. An unconfigured session rejects immediately, before
// any waiting or network traffic.
//
// Once the first grant has succeeded, Ready keeps returning nil without
// touching the network: the session stays in its last-authenticated state
// even across a later failed refresh cycle.
func (s *Session) Ready(ctx context.Context) error {
	if !s.configured {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrServiceUnavailable)
	}

	select {
	case <-s.ready:
		return nil
	default:
	}

	att := s.beginRefresh()
	select {
	case <-att.done:
		return att.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// beginRefresh returns the in-flight refresh attempt, starting one if none is
// running. Concurrent triggers coalesce onto the same attempt, so the grant
// is never invoked concurrently with itself.
func (s *Session) beginRefresh() *attempt {
	s.mu.Lock()
	if s.inflight != nil {
		att := s.inflight
		s.mu.Unlock()
		return att
	}
	att := &attempt{done: make(chan struct{})}
	s.inflight = att
	connecting := !s.authenticated
	s.mu.Unlock()

	if connecting {
		s.logger.Info("connecting to spotify")
	}

	go func() {
		att.err = s.refresh()
		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()
		close(att.done)
	}()

	return att
}

// refresh performs one grant cycle: request a token, store it, push it into
// the sink, signal readiness, and arm the next cycle relative to expiry.
// A failed grant returns without rescheduling; the error belongs to whoever
// triggered this attempt.
//
// The grant runs on a background context: the attempt is shared by every
// waiter, so no single caller's cancellation may abort it.
func (s *Session) refresh() error {
	tok, err := s.granter.Grant(context.Background())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	wasAuthenticated := s.authenticated
	s.authenticated = true
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.SetAccessToken(tok.AccessToken)
	}
	s.readyOnce.Do(func() { close(s.ready) })

	if wasAuthenticated {
		s.logger.Debug("spotify token refreshed", "expires_in", tok.ExpiresIn)
	} else {
		s.logger.Info("connected to spotify")
	}

	s.schedule(scheduleDelay(tok.ExpiresIn))
	return nil
}

// schedule arms the next refresh cycle, replacing any timer still pending.
func (s *Session) schedule(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, s.scheduledRefresh)
}

// scheduledRefresh runs a timer-driven cycle. Its error has no caller to
// propagate to, so it is logged; the session keeps serving the previous token
// until the provider rejects it.
func (s *Session) scheduledRefresh() {
	att := s.beginRefresh()
	<-att.done
	if att.err != nil {
		s.logger.Error("scheduled refresh failed", "err", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, att.err))
	}
}

// Close stops the pending refresh timer. The session remains usable; the
// next readiness check simply starts a fresh cycle if one is needed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleDelay computes how long to wait before the next refresh:
// refreshMargin before provider-side expiry, immediately when the token's
// lifetime does not cover the margin.
func scheduleDelay(expiresIn time.Duration) time.Duration {
	d := expiresIn - refreshMargin
	if d < 0 {
		return 0
	}
	return d
}
