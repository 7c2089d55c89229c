package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/repository"
	"github.com/Hung484/todo-app-frontend-1234/transport"

	"go.uber.org/zap"
)

// ErrSuperseded is returned by an operation whose result was discarded
// because a newer login, register, or logout started while it was running.
var ErrSuperseded = errors.New("superseded by a newer session operation")

// AuthAPI is the remote half of authentication.
type AuthAPI interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context) (*model.User, error)
}

// SessionState is a snapshot of the controller. A nil User means anonymous;
// an empty Error means none.
type SessionState struct {
	User    *model.User
	Loading bool
	Error   string
}

func (s SessionState) IsAuthenticated() bool { return s.User != nil }

// SessionController owns "who is logged in" for one client process. Build
// one with NewSessionController, call Bootstrap once at startup, and share it.
//
// Every Bootstrap, Login, Register and Logout starts a new generation and
// cancels the operation in flight. Results of an older generation are
// dropped, so the last operation started is the one whose outcome sticks.
type SessionController struct {
	auth   AuthAPI
	store  repository.SessionStore
	logger *zap.Logger

	// commitMu serializes store writes with the state change that goes with them.
	commitMu sync.Mutex

	mu           sync.Mutex
	state        SessionState
	token        string
	generation   uint64
	cancel       context.CancelFunc
	bootstrapped bool
	listeners    map[int]func(SessionState)
	nextListener int
}

var _ middleware.TokenSource = (*SessionController)(nil)

func NewSessionController(auth AuthAPI, store repository.SessionStore, logger *zap.Logger) *SessionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionController{
		auth:      auth,
		store:     store,
		logger:    logger,
		state:     SessionState{Loading: true},
		listeners: make(map[int]func(SessionState)),
	}
}

// State returns a copy of the current state.
func (c *SessionController) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *SessionController) IsAuthenticated() bool {
	return c.State().IsAuthenticated()
}

// Token returns the bearer token of the current session, or "".
func (c *SessionController) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Subscribe calls fn with the new state after every change. The returned
// func removes the listener.
func (c *SessionController) Subscribe(fn func(SessionState)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Bootstrap validates the stored session against the API. A session the API
// accepts becomes current with the profile the API returns; anything else
// is cleared silently. Only the first call does work.
func (c *SessionController) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	if c.bootstrapped {
		c.mu.Unlock()
		return
	}
	c.bootstrapped = true
	c.mu.Unlock()

	opCtx, gen, done := c.begin(ctx)
	defer done()

	session, err := c.store.Load(opCtx)
	if err != nil {
		c.logger.Warn("could not read stored session", zap.Error(err))
		c.invalidate(opCtx, gen, "store_error")
		return
	}
	if session == nil {
		c.update(gen, func(s *SessionState) { s.Loading = false })
		return
	}
	if !session.Complete() {
		c.logger.Warn("stored session is incomplete")
		c.invalidate(opCtx, gen, "incomplete")
		return
	}

	if !c.setToken(gen, session.Token) {
		middleware.TrackAuthAttempt("superseded", "bootstrap")
		return
	}

	profile, err := c.auth.Profile(opCtx)
	if err != nil {
		if !c.current(gen) {
			middleware.TrackAuthAttempt("superseded", "bootstrap")
			return
		}
		c.logger.Info("stored session rejected, logging out",
			zap.String("reason", transport.KindName(err)), zap.Error(err))
		c.invalidate(opCtx, gen, "rejected")
		return
	}

	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	if !c.current(gen) {
		middleware.TrackAuthAttempt("superseded", "bootstrap")
		return
	}
	// The server profile wins over the cached copy; keep the store in step.
	if err := c.store.Save(opCtx, session.Token, profile); err != nil {
		c.logger.Warn("could not refresh stored user", zap.Error(err))
	}
	if !c.update(gen, func(s *SessionState) {
		s.User = profile
		s.Loading = false
	}) {
		middleware.TrackAuthAttempt("superseded", "bootstrap")
		return
	}
	middleware.TrackAuthAttempt("success", "bootstrap")
}

// Login authenticates with email and password and persists the session. On
// failure the state's Error holds a message for display and the error is
// returned.
func (c *SessionController) Login(ctx context.Context, req dto.LoginRequest) error {
	return c.authenticate(ctx, "login", "Login failed", func(ctx context.Context) (*dto.AuthResponse, error) {
		return c.auth.Login(ctx, req)
	})
}

// Register creates an account and logs into it, with the same contract as Login.
func (c *SessionController) Register(ctx context.Context, req dto.RegisterRequest) error {
	return c.authenticate(ctx, "register", "Registration failed", func(ctx context.Context) (*dto.AuthResponse, error) {
		return c.auth.Register(ctx, req)
	})
}

// Logout forgets the session locally. It makes no API call and cannot fail;
// a store that cannot be cleared is logged.
func (c *SessionController) Logout(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("could not clear stored session", zap.Error(err))
	}
	c.set(func(s *SessionState) {
		c.token = ""
		s.User = nil
		s.Loading = false
	})
}

func (c *SessionController) authenticate(ctx context.Context, kind, fallback string, call func(context.Context) (*dto.AuthResponse, error)) error {
	opCtx, gen, done := c.begin(ctx)
	defer done()

	c.update(gen, func(s *SessionState) {
		s.Loading = true
		s.Error = ""
	})

	resp, err := call(opCtx)
	if err != nil {
		if !c.current(gen) {
			middleware.TrackAuthAttempt("superseded", kind)
			return fmt.Errorf("%s: %w", kind, ErrSuperseded)
		}
		c.update(gen, func(s *SessionState) {
			s.Error = userMessage(err, fallback)
			s.Loading = false
		})
		middleware.TrackAuthAttempt("failure", kind)
		return err
	}

	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	if !c.current(gen) {
		middleware.TrackAuthAttempt("superseded", kind)
		return fmt.Errorf("%s: %w", kind, ErrSuperseded)
	}

	if err := c.store.Save(opCtx, resp.Token, resp.User); err != nil {
		if !c.current(gen) {
			middleware.TrackAuthAttempt("superseded", kind)
			return fmt.Errorf("%s: %w", kind, ErrSuperseded)
		}
		c.logger.Error("could not persist session", zap.String("operation", kind), zap.Error(err))
		c.update(gen, func(s *SessionState) {
			s.Error = fallback
			s.Loading = false
		})
		middleware.TrackAuthAttempt("failure", kind)
		return fmt.Errorf("%s: %w", kind, err)
	}

	user := *resp.User
	if !c.update(gen, func(s *SessionState) {
		c.token = resp.Token
		s.User = &user
		s.Loading = false
	}) {
		// Superseded during the save: take it back so the store matches the state.
		if err := c.store.Clear(context.WithoutCancel(opCtx)); err != nil {
			c.logger.Warn("could not roll back superseded session", zap.String("operation", kind), zap.Error(err))
		}
		middleware.TrackAuthAttempt("superseded", kind)
		return fmt.Errorf("%s: %w", kind, ErrSuperseded)
	}
	middleware.TrackAuthAttempt("success", kind)
	c.logger.Info("session started", zap.String("operation", kind), zap.String("user_id", user.UserID))
	return nil
}

// invalidate clears the store and drops to anonymous without reporting an error.
func (c *SessionController) invalidate(ctx context.Context, gen uint64, reason string) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	if !c.current(gen) {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("could not clear invalid session", zap.Error(err))
	}
	c.update(gen, func(s *SessionState) {
		c.token = ""
		s.User = nil
		s.Loading = false
	})
	middleware.TrackAuthAttempt("invalid_"+reason, "bootstrap")
}

// begin starts a new generation, cancelling whatever was in flight.
func (c *SessionController) begin(ctx context.Context) (context.Context, uint64, func()) {
	opCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.mu.Unlock()

	return opCtx, gen, func() {
		cancel()
		c.mu.Lock()
		if c.generation == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}
}

func (c *SessionController) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == gen
}

func (c *SessionController) setToken(gen uint64, token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.token = token
	return true
}

// update applies fn only while gen is current. It reports whether it did.
func (c *SessionController) update(gen uint64, fn func(*SessionState)) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	snapshot, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// set applies fn unconditionally.
func (c *SessionController) set(fn func(*SessionState)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot, listeners := c.snapshotLocked(), c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, snapshot)
}

func (c *SessionController) snapshotLocked() SessionState {
	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (c *SessionController) listenersLocked() []func(SessionState) {
	out := make([]func(SessionState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(SessionState), state SessionState) {
	for _, fn := range listeners {
		fn(state)
	}
}
