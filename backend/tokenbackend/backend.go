package tokenbackend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExchanger is an exported constant or variable used by the session engine.
var ErrNoExchanger = errors.New("no exchanger configured")

// ErrMalformedToken is an exported constant or variable used by the session engine.
var ErrMalformedToken = errors.New("malformed access token")

// TokenPair is the access/refresh token pair issued by the identity
// provider. RefreshToken may be empty when the provider does not rotate.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ExchangeResult is returned by [Exchanger] credential operations.
// SessionActive is false when the provider accepted the credentials but
// issued no usable session (sign-up pending email confirmation).
type ExchangeResult struct {
	Tokens        TokenPair
	SessionActive bool
}

// Exchanger performs the remote credential operations the backend cannot
// do locally. Implementations talk to the identity provider's HTTP API.
type Exchanger interface {
	Register(ctx context.Context, email, password string, metadata map[string]string) (ExchangeResult, error)
	ExchangePassword(ctx context.Context, email, password string) (ExchangeResult, error)
	Revoke(ctx context.Context, tokens TokenPair) error
}

// Backend is a goSession.IdentityBackend that holds a JWT pair in memory
// and derives the current identity from the access token's claims.
//
// Session-change listeners are invoked from a dedicated dispatch goroutine,
// never on the stack of the call that caused the change, so listeners may
// safely call back into the backend or into locks held by the caller.
// A single dispatcher preserves per-listener event order.
//
// Backend instances are safe for concurrent use.
type Backend struct {
	exchanger Exchanger
	now       func() time.Time

	mu        sync.Mutex
	tokens    TokenPair
	hasTokens bool
	listeners map[int]func(goSession.SessionEvent, *goSession.Identity)
	nextID    int

	events    chan sessionChange
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type sessionChange struct {
	event    goSession.SessionEvent
	identity *goSession.Identity
}

// New creates a [Backend]. exchanger may be nil for token-injection-only
// use, in which case the credential operations return [ErrNoExchanger].
// Call [Backend.Close] when done to stop the listener dispatcher.
func New(exchanger Exchanger) *Backend {
	b := &Backend{
		exchanger: exchanger,
		now:       time.Now,
		listeners: make(map[int]func(goSession.SessionEvent, *goSession.Identity)),
		events:    make(chan sessionChange, 16),
		done:      make(chan struct{}),
	}
	b.wg.Add(1)
	go b.dispatch()
	return b
}

// Close stops the listener dispatcher after draining queued events.
// The backend must not be used after Close.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()
	})
}

func (b *Backend) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case msg := <-b.events:
			b.deliver(msg)
		case <-b.done:
			for {
				select {
				case msg := <-b.events:
					b.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (b *Backend) deliver(msg sessionChange) {
	b.mu.Lock()
	fns := make([]func(goSession.SessionEvent, *goSession.Identity), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(msg.event, msg.identity)
	}
}

type accessClaims struct {
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// identityFromToken reads the (already verified) access token's claims.
// An expired token yields a nil identity, not an error.
func (b *Backend) identityFromToken(token string) (*goSession.Identity, error) {
	var claims accessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(b.now()) {
		return nil, nil
	}

	metadata := make(map[string]string, len(claims.UserMetadata))
	for k, v := range claims.UserMetadata {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	return &goSession.Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		Metadata: metadata,
	}, nil
}

// SetTokens installs a token pair obtained out of band and notifies
// session-change listeners. A malformed or expired access token is
// rejected and leaves the previous pair in place.
func (b *Backend) SetTokens(pair TokenPair) error {
	identity, err := b.identityFromToken(pair.AccessToken)
	if err != nil {
		return err
	}
	if identity == nil {
		return fmt.Errorf("%w: token already expired", ErrMalformedToken)
	}

	b.mu.Lock()
	replacing := b.hasTokens
	b.tokens = pair
	b.hasTokens = true
	b.mu.Unlock()

	event := goSession.SessionSignedIn
	if replacing {
		event = goSession.SessionTokenRefreshed
	}
	b.notify(event, identity)
	return nil
}

// ClearTokens drops the stored pair and notifies listeners of the
// signed-out state. Clearing an empty backend is a no-op.
func (b *Backend) ClearTokens() {
	b.mu.Lock()
	had := b.hasTokens
	b.tokens = TokenPair{}
	b.hasTokens = false
	b.mu.Unlock()

	if had {
		b.notify(goSession.SessionSignedOut, nil)
	}
}

// SignUp describes the sign up operation and its observable behavior.
//
// SignUp accepts a context used for cancellation and timeouts where applicable.
// SignUp may return an error when input validation, dependency calls, or security checks fail.
// SignUp does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignUp(ctx context.Context, email, password string, metadata map[string]string) (goSession.AuthOutcome, error) {
	if b.exchanger == nil {
		return goSession.AuthOutcome{}, ErrNoExchanger
	}

	result, err := b.exchanger.Register(ctx, email, password, metadata)
	if err != nil {
		return goSession.AuthOutcome{}, err
	}
	if !result.SessionActive {
		return goSession.AuthOutcome{SessionActive: false}, nil
	}

	if err := b.SetTokens(result.Tokens); err != nil {
		return goSession.AuthOutcome{}, err
	}
	identity, err := b.identityFromToken(result.Tokens.AccessToken)
	if err != nil {
		return goSession.AuthOutcome{}, err
	}
	return goSession.AuthOutcome{Identity: identity, SessionActive: true}, nil
}

// SignInWithPassword describes the sign in with password operation and its observable behavior.
//
// SignInWithPassword accepts a context used for cancellation and timeouts where applicable.
// SignInWithPassword may return an error when input validation, dependency calls, or security checks fail.
// SignInWithPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (goSession.AuthOutcome, error) {
	if b.exchanger == nil {
		return goSession.AuthOutcome{}, ErrNoExchanger
	}

	result, err := b.exchanger.ExchangePassword(ctx, email, password)
	if err != nil {
		return goSession.AuthOutcome{}, err
	}

	if err := b.SetTokens(result.Tokens); err != nil {
		return goSession.AuthOutcome{}, err
	}
	identity, err := b.identityFromToken(result.Tokens.AccessToken)
	if err != nil {
		return goSession.AuthOutcome{}, err
	}
	return goSession.AuthOutcome{Identity: identity, SessionActive: true}, nil
}

// SignOut describes the sign out operation and its observable behavior.
//
// SignOut accepts a context used for cancellation and timeouts where applicable.
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	tokens := b.tokens
	had := b.hasTokens
	b.mu.Unlock()

	if !had {
		return nil
	}

	if b.exchanger != nil {
		// The pair survives a failed revocation so the caller can retry.
		if err := b.exchanger.Revoke(ctx, tokens); err != nil {
			return err
		}
	}

	b.ClearTokens()
	return nil
}

// CurrentIdentity describes the current identity operation and its observable behavior.
//
// CurrentIdentity accepts a context used for cancellation and timeouts where applicable.
// CurrentIdentity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) CurrentIdentity(_ context.Context) (*goSession.Identity, error) {
	b.mu.Lock()
	tokens := b.tokens
	had := b.hasTokens
	b.mu.Unlock()

	if !had {
		return nil, nil
	}

	identity, err := b.identityFromToken(tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// OnSessionChange describes the on session change operation and its observable behavior.
//
// OnSessionChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Backend) OnSessionChange(fn func(goSession.SessionEvent, *goSession.Identity)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Backend) notify(event goSession.SessionEvent, identity *goSession.Identity) {
	select {
	case b.events <- sessionChange{event: event, identity: identity}:
	case <-b.done:
	}
}
