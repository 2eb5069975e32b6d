package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rickgao/lightstream/internal/channel"
	"github.com/rickgao/lightstream/internal/connection"
	"github.com/rickgao/lightstream/internal/metrics"
	"github.com/rickgao/lightstream/internal/router"
)

// ClientFactory creates the transport for one session.
type ClientFactory func(cfg connection.ClientConfig, logger *slog.Logger) connection.Client

// Option configures a Stream.
type Option func(*Stream)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stream) {
		s.logger = logger
	}
}

// WithClientFactory replaces the WebSocket transport.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Stream) {
		s.newClient = f
	}
}

// Stream is a realtime client bound to a fixed channel list and handler set.
type Stream struct {
	cfg        Config
	channels   []channel.Name
	handlers   Handlers
	logger     *slog.Logger
	dispatcher *router.Dispatcher
	newClient  ClientFactory

	// mu guards the session handle and state
	mu    sync.Mutex
	sess  *session
	state State
}

// session is one connection attempt and its lifetime.
type session struct {
	id     string
	client connection.Client
	logger *slog.Logger

	stopped  chan struct{}
	stopOnce sync.Once

	// ended guards teardown so it runs once whichever side ends the session
	ended sync.Once
}

func (ss *session) stop() {
	ss.stopOnce.Do(func() {
		close(ss.stopped)
		ss.client.Close()
	})
}

func (ss *session) isStopped() bool {
	select {
	case <-ss.stopped:
		return true
	default:
		return false
	}
}

// New creates a Stream. The channel list and handlers are copied and fixed
// for the life of the Stream.
func New(cfg Config, subs *channel.Subscriptions, handlers Handlers, opts ...Option) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if subs == nil || subs.Len() == 0 {
		return nil, ErrNoChannels
	}

	s := &Stream{
		cfg:       cfg,
		channels:  subs.Names(),
		handlers:  handlers,
		logger:    slog.Default(),
		newClient: connection.NewClient,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "stream")
	s.dispatcher = router.NewDispatcher(s.logger)

	return s, nil
}

// Channels returns the subscribed channel names in subscription order.
func (s *Stream) Channels() []channel.Name {
	out := make([]channel.Name, len(s.channels))
	copy(out, s.channels)
	return out
}

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start connects, subscribes and processes frames until the session ends.
//
// A running session is torn down first. Transport failures are reported to
// OnClose and not returned: Start returns nil when the session ends through
// Stop or the transport, and ctx.Err() when ctx ends it.
func (s *Stream) Start(ctx context.Context) error {
	ss := s.begin()

	dialCtx, cancelDial := context.WithCancel(ctx)
	go func() {
		select {
		case <-ss.stopped:
			cancelDial()
		case <-dialCtx.Done():
		}
	}()
	err := ss.client.Connect(dialCtx)
	cancelDial()

	if err != nil {
		if ss.isStopped() {
			return nil
		}
		if ctx.Err() != nil {
			s.release(ss)
			ss.stop()
			return ctx.Err()
		}
		metrics.IncConnect("error")
		ss.logger.Warn("connect failed", "url", s.cfg.URL, "error", err)
		s.closed(ss, err)
		return nil
	}
	metrics.IncConnect("ok")

	if !s.markOpen(ss) {
		// Stop won the race with the handshake
		ss.stop()
		return nil
	}
	ss.logger.Info("stream connected", "url", s.cfg.URL, "channels", len(s.channels))

	s.subscribe(ss)
	return s.run(ctx, ss)
}

// Stop closes the current session. The close handler is not invoked.
// Stop before Start, or after the session has ended, is a no-op.
func (s *Stream) Stop() {
	s.mu.Lock()
	ss := s.sess
	if ss == nil {
		s.mu.Unlock()
		return
	}
	s.sess = nil
	s.state = StateClosed
	s.mu.Unlock()

	s.stopSession(ss)
}

func (s *Stream) stopSession(ss *session) {
	ss.ended.Do(func() {
		metrics.IncClose("stop")
		ss.logger.Info("stream stopped")
	})
	ss.stop()
}

// begin installs a new session, tearing down any previous one.
func (s *Stream) begin() *session {
	id := uuid.NewString()
	logger := s.logger.With("session", id)

	ss := &session{
		id:      id,
		client:  s.newClient(s.cfg.clientConfig(), logger),
		logger:  logger,
		stopped: make(chan struct{}),
	}

	s.mu.Lock()
	old := s.sess
	s.sess = ss
	s.state = StateConnecting
	s.mu.Unlock()

	if old != nil {
		old.logger.Info("restarting stream")
		s.stopSession(old)
	}
	return ss
}

func (s *Stream) markOpen(ss *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != ss || ss.isStopped() {
		return false
	}
	s.state = StateOpen
	return true
}

// release clears the handle if ss still owns it.
func (s *Stream) release(ss *session) {
	s.mu.Lock()
	if s.sess == ss {
		s.sess = nil
		s.state = StateClosed
	}
	s.mu.Unlock()
}

// subscribe sends one subscribe frame per channel, in order. A failed send
// is logged and the remaining channels are still attempted.
func (s *Stream) subscribe(ss *session) {
	for _, name := range s.channels {
		frame, err := router.SubscribeFrame(string(name))
		if err == nil {
			err = ss.client.Send(frame)
		}
		if err != nil {
			metrics.IncSubscribeFailure()
			ss.logger.Warn("subscribe failed", "channel", name, "error", err)
			continue
		}
		ss.logger.Debug("subscribe sent", "channel", name)
	}
}

// run processes frames until the session ends.
func (s *Stream) run(ctx context.Context, ss *session) error {
	messages := ss.client.Messages()
	for {
		select {
		case <-ctx.Done():
			s.release(ss)
			s.stopSession(ss)
			return ctx.Err()

		case <-ss.stopped:
			return nil

		case msg, ok := <-messages:
			if !ok {
				if ss.isStopped() {
					return nil
				}
				var err error
				select {
				case err = <-ss.client.Errors():
				default:
				}
				s.closed(ss, err)
				return nil
			}
			s.handleFrame(ss, msg)
		}
	}
}

// closed ends a session that the transport ended and reports it to OnClose.
func (s *Stream) closed(ss *session, cause error) {
	ss.ended.Do(func() {
		s.release(ss)

		info := CloseInfo{Session: ss.id}
		info.Code, info.Text = connection.CloseStatus(cause)
		if cause != nil {
			info.Err = fmt.Errorf("%w: %w", ErrTransport, cause)
		} else {
			info.Err = ErrTransport
		}

		reason := closeReason(cause)
		metrics.IncClose(reason)
		ss.logger.Warn("stream closed",
			"reason", reason,
			"code", info.Code,
			"text", info.Text,
			"error", cause,
		)

		if h := s.handlers.OnClose; h != nil {
			s.dispatcher.Invoke(SlotClose, func() error { return h(s, info) })
		}
	})
	ss.client.Close()
}

func closeReason(err error) string {
	code, _ := connection.CloseStatus(err)
	switch {
	case errors.Is(err, connection.ErrPongTimeout):
		return "pong_timeout"
	case code != 1006:
		return "peer"
	default:
		return "error"
	}
}
