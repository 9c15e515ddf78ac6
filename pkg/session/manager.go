package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Manager owns a single live channel to the conversational endpoint, the
// ordered transcript of exchanged entries, and the reconnection controller.
//
// All state mutation funnels through methods guarded by one mutex; the
// channel generation counter discards events from channels that were already
// replaced or torn down.
type Manager struct {
	id      string
	baseURL string
	dialer  Dialer
	log     zerolog.Logger

	baseCtx     context.Context
	cancel      context.CancelFunc
	dialTimeout time.Duration

	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int

	mu       sync.Mutex
	state    ConnState
	ch       Channel
	gen      uint64
	attempts int
	retry    *time.Timer
	backoff  *backoff.ExponentialBackOff
	awaiting bool
	closed   bool
	entries  []Entry

	updates chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithDialer replaces the production websocket dialer.
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithBackoff overrides the reconnection policy. maxAttempts bounds the
// automatic retries only; manual reconnects are never capped.
func WithBackoff(base, max time.Duration, maxAttempts int) Option {
	return func(m *Manager) {
		m.baseDelay = base
		m.maxDelay = max
		m.maxAttempts = maxAttempts
	}
}

// WithDialTimeout bounds a single dial attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(m *Manager) { m.dialTimeout = d }
}

// WithSessionID pins the session identity instead of generating one.
func WithSessionID(id string) Option {
	return func(m *Manager) { m.id = id }
}

// NewManager builds a manager targeting baseURL (the channel endpoint without
// the session segment, e.g. ws://localhost:8000/ws). It does not dial; call
// Open once the host is mounted.
func NewManager(ctx context.Context, baseURL string, opts ...Option) (*Manager, error) {
	if ctx == nil {
		return nil, errors.New("manager base context is nil")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("manager base URL is empty")
	}

	m := &Manager{
		baseURL:     baseURL,
		dialer:      NewWebsocketDialer(),
		dialTimeout: 10 * time.Second,
		baseDelay:   DefaultBaseDelay,
		maxDelay:    DefaultMaxDelay,
		maxAttempts: DefaultMaxAttempts,
		state:       StateIdle,
		updates:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.id == "" {
		m.id = NewSessionID()
	}
	m.backoff = newRetryBackoff(m.baseDelay, m.maxDelay)
	m.baseCtx, m.cancel = context.WithCancel(ctx)
	m.log = log.With().Str("component", "session").Str("session_id", m.id).Logger()
	return m, nil
}

// SessionID returns the opaque per-manager identity.
func (m *Manager) SessionID() string {
	if m == nil {
		return ""
	}
	return m.id
}

// URL returns the channel target, base URL plus session segment.
func (m *Manager) URL() string {
	if m == nil {
		return ""
	}
	return m.baseURL + "/" + m.id
}

// Open starts connecting unless a channel is already open or a dial is in
// flight. The dial itself is asynchronous; progress is reported through
// Indicator and Updates.
func (m *Manager) Open() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openLocked()
}

func (m *Manager) openLocked() {
	if m.closed {
		return
	}
	if m.state == StateOpen && m.ch != nil {
		return
	}
	if m.state == StateConnecting {
		return
	}
	m.cancelRetryLocked()
	m.state = StateConnecting
	m.gen++
	gen := m.gen
	m.notifyLocked()
	go m.connect(gen)
}

func (m *Manager) connect(gen uint64) {
	ctx, cancel := context.WithTimeout(m.baseCtx, m.dialTimeout)
	defer cancel()

	ch, err := m.dialer.Dial(ctx, m.URL())
	if err != nil {
		m.log.Debug().Err(err).Msg("dial failed")
		// a failed dial takes the same path as a channel close so the
		// retry bookkeeping stays in one place
		m.handleClose(gen, err)
		return
	}

	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		_ = ch.Close()
		return
	}
	m.ch = ch
	m.state = StateOpen
	m.attempts = 0
	m.backoff.Reset()
	m.notifyLocked()
	m.mu.Unlock()

	m.log.Info().Str("url", m.URL()).Msg("channel open")
	go m.readLoop(gen, ch)
}

func (m *Manager) readLoop(gen uint64, ch Channel) {
	for {
		text, err := ch.ReadMessage()
		if err != nil {
			m.log.Debug().Err(err).Msg("read loop end")
			m.handleClose(gen, err)
			return
		}
		m.handleMessage(gen, text)
	}
}

// handleMessage appends a remote frame to the transcript. Frames from stale
// channel generations are dropped.
func (m *Manager) handleMessage(gen uint64, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}
	m.entries = append(m.entries, Entry{Origin: OriginRemote, Content: text})
	m.awaiting = false
	m.notifyLocked()
}

// handleClose reacts to channel loss: drop the channel reference, flip to
// Closed, and schedule a retry while the attempt budget lasts.
func (m *Manager) handleClose(gen uint64, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}
	if m.ch != nil {
		_ = m.ch.Close()
		m.ch = nil
	}
	m.state = StateClosed
	m.awaiting = false

	if m.attempts < m.maxAttempts {
		delay := m.backoff.NextBackOff()
		m.log.Debug().Err(cause).Int("attempt", m.attempts).Dur("delay", delay).Msg("channel closed, retry scheduled")
		m.retry = time.AfterFunc(delay, func() { m.retryFire(gen) })
	} else {
		m.log.Warn().Err(cause).Int("attempts", m.attempts).Msg("channel closed, automatic retries exhausted")
	}
	m.notifyLocked()
}

func (m *Manager) retryFire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.gen {
		return
	}
	m.retry = nil
	m.attempts++
	m.openLocked()
}

// Send appends a local entry and transmits text verbatim. It reports false
// without mutating anything when text is blank after trimming or the channel
// is not open; unsent content is never queued.
func (m *Manager) Send(text string) bool {
	if m == nil {
		return false
	}
	if strings.TrimSpace(text) == "" {
		return false
	}
	m.mu.Lock()
	if m.closed || m.state != StateOpen || m.ch == nil {
		m.mu.Unlock()
		return false
	}
	m.entries = append(m.entries, Entry{Origin: OriginLocal, Content: text})
	m.awaiting = true
	m.notifyLocked()
	// transmit under the lock so wire order always matches transcript
	// order, even with concurrent senders
	err := m.ch.WriteMessage(text)
	m.mu.Unlock()

	if err != nil {
		// the read loop observes the dead channel and drives the close path
		m.log.Warn().Err(err).Msg("send failed")
	}
	return true
}

// ForceReconnect cancels any pending retry, resets the attempt counter, and
// reopens unless the channel is already open.
func (m *Manager) ForceReconnect() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.cancelRetryLocked()
	m.attempts = 0
	m.backoff.Reset()
	if m.state == StateOpen && m.ch != nil {
		return
	}
	// invalidate any in-flight dial, then start over
	m.gen++
	gen := m.gen
	m.state = StateConnecting
	m.notifyLocked()
	go m.connect(gen)
}

// Close tears the manager down: pending retry cancelled, channel closed,
// no reconnect scheduled. The manager cannot be reused afterwards.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.cancelRetryLocked()
	m.gen++
	ch := m.ch
	m.ch = nil
	m.state = StateClosed
	// every notify path checks closed under the lock first, so no send can
	// race this close; hosts blocked on Updates are released
	close(m.updates)
	m.mu.Unlock()

	m.cancel()
	m.log.Info().Msg("session torn down")
	if ch != nil {
		return ch.Close()
	}
	return nil
}

func (m *Manager) cancelRetryLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

// Transcript returns an ordered snapshot of all entries.
func (m *Manager) Transcript() []Entry {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Indicator returns the derived connectivity view.
func (m *Manager) Indicator() Indicator {
	if m == nil {
		return indicatorFor(StateClosed)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return indicatorFor(m.state)
}

// AwaitingReply reports whether a local send is still unanswered.
func (m *Manager) AwaitingReply() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.awaiting
}

// Attempts returns the current automatic retry count.
func (m *Manager) Attempts() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Updates delivers a coalesced signal whenever the transcript or connectivity
// state changes. Hosts re-read the exposed surface on each signal. The
// channel is closed at teardown so blocked listeners are released.
func (m *Manager) Updates() <-chan struct{} {
	return m.updates
}

func (m *Manager) notifyLocked() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}
