package tokenbackend

import (
	"context"
	"errors"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-signing-key")

func mintToken(t *testing.T, sub, email string, metadata map[string]any, ttl time.Duration) string {
	t.Helper()
	claims := accessClaims{
		Email:        email,
		UserMetadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubExchanger struct {
	registerResult ExchangeResult
	registerErr    error
	exchangeResult ExchangeResult
	exchangeErr    error
	revokeErr      error
	revoked        int
}

func (s *stubExchanger) Register(_ context.Context, _, _ string, _ map[string]string) (ExchangeResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubExchanger) ExchangePassword(_ context.Context, _, _ string) (ExchangeResult, error) {
	return s.exchangeResult, s.exchangeErr
}

func (s *stubExchanger) Revoke(_ context.Context, _ TokenPair) error {
	s.revoked++
	return s.revokeErr
}

func TestCurrentIdentityEmptyBackend(t *testing.T) {
	b := New(nil)
	defer b.Close()
	identity, err := b.CurrentIdentity(context.Background())
	if err != nil {
		t.Fatalf("CurrentIdentity: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected nil identity, got %+v", identity)
	}
}

func TestSetTokensParsesClaims(t *testing.T) {
	b := New(nil)
	defer b.Close()
	token := mintToken(t, "user-1", "a@b.test", map[string]any{"display_name": "Ada", "level": 3}, time.Hour)

	if err := b.SetTokens(TokenPair{AccessToken: token}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	identity, err := b.CurrentIdentity(context.Background())
	if err != nil {
		t.Fatalf("CurrentIdentity: %v", err)
	}
	if identity == nil || identity.ID != "user-1" || identity.Email != "a@b.test" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Metadata["display_name"] != "Ada" {
		t.Fatalf("string metadata must carry through: %+v", identity.Metadata)
	}
	if _, ok := identity.Metadata["level"]; ok {
		t.Fatal("non-string metadata values must be dropped")
	}
}

func TestSetTokensRejectsExpired(t *testing.T) {
	b := New(nil)
	defer b.Close()
	token := mintToken(t, "user-1", "a@b.test", nil, -time.Minute)

	if err := b.SetTokens(TokenPair{AccessToken: token}); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for expired token, got %v", err)
	}
}

func TestSetTokensRejectsGarbage(t *testing.T) {
	b := New(nil)
	defer b.Close()
	if err := b.SetTokens(TokenPair{AccessToken: "not-a-jwt"}); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestExpiredStoredTokenYieldsNoIdentity(t *testing.T) {
	b := New(nil)
	defer b.Close()
	token := mintToken(t, "user-1", "a@b.test", nil, time.Hour)
	if err := b.SetTokens(TokenPair{AccessToken: token}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	identity, err := b.CurrentIdentity(context.Background())
	if err != nil {
		t.Fatalf("CurrentIdentity: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected nil identity for expired token, got %+v", identity)
	}
}

func TestSessionChangeEvents(t *testing.T) {
	b := New(nil)
	defer b.Close()

	received := make(chan goSession.SessionEvent, 8)
	unsub := b.OnSessionChange(func(event goSession.SessionEvent, _ *goSession.Identity) {
		received <- event
	})

	first := mintToken(t, "user-1", "a@b.test", nil, time.Hour)
	second := mintToken(t, "user-1", "a@b.test", nil, 2*time.Hour)

	if err := b.SetTokens(TokenPair{AccessToken: first}); err != nil {
		t.Fatalf("first SetTokens: %v", err)
	}
	if err := b.SetTokens(TokenPair{AccessToken: second}); err != nil {
		t.Fatalf("second SetTokens: %v", err)
	}
	b.ClearTokens()
	b.ClearTokens() // no event for an already-empty backend

	want := []goSession.SessionEvent{
		goSession.SessionSignedIn,
		goSession.SessionTokenRefreshed,
		goSession.SessionSignedOut,
	}
	for i, expected := range want {
		select {
		case got := <-received:
			if got != expected {
				t.Fatalf("event %d: expected %s, got %s", i, expected, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d: expected %s, none delivered", i, expected)
		}
	}

	unsub()
	if err := b.SetTokens(TokenPair{AccessToken: first}); err != nil {
		t.Fatalf("SetTokens after unsubscribe: %v", err)
	}
	select {
	case got := <-received:
		t.Fatalf("unsubscribed listener must not fire, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestListenerMayCallControllerDuringSignIn(t *testing.T) {
	token := mintToken(t, "user-1", "a@b.test", nil, time.Hour)
	ex := &stubExchanger{exchangeResult: ExchangeResult{
		Tokens:        TokenPair{AccessToken: token, RefreshToken: "r1"},
		SessionActive: true,
	}}
	b := New(ex)
	defer b.Close()

	controller, err := goSession.New().WithIdentityBackend(b).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	controller.Start(context.Background())
	defer controller.Close()

	done := make(chan error, 1)
	go func() {
		done <- controller.SignIn(context.Background(), "a@b.test", "pw")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("SignIn: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("SignIn did not return while the session listener was registered")
	}
	if !controller.IsAuthenticated() {
		t.Fatal("expected an authenticated controller after sign-in")
	}
}

func TestSignInWithPasswordInstallsTokens(t *testing.T) {
	token := mintToken(t, "user-1", "a@b.test", nil, time.Hour)
	ex := &stubExchanger{exchangeResult: ExchangeResult{
		Tokens:        TokenPair{AccessToken: token, RefreshToken: "r1"},
		SessionActive: true,
	}}
	b := New(ex)
	defer b.Close()

	outcome, err := b.SignInWithPassword(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if outcome.Identity == nil || outcome.Identity.ID != "user-1" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if !outcome.SessionActive {
		t.Fatal("expected an active session")
	}
}

func TestSignUpPendingIssuesNoSession(t *testing.T) {
	ex := &stubExchanger{registerResult: ExchangeResult{SessionActive: false}}
	b := New(ex)
	defer b.Close()

	outcome, err := b.SignUp(context.Background(), "new@b.test", "pw", nil)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if outcome.Identity != nil || outcome.SessionActive {
		t.Fatalf("pending sign-up must carry no session: %+v", outcome)
	}
	if id, _ := b.CurrentIdentity(context.Background()); id != nil {
		t.Fatal("no tokens must be installed for a pending sign-up")
	}
}

func TestSignOutKeepsTokensOnRevokeFailure(t *testing.T) {
	token := mintToken(t, "user-1", "a@b.test", nil, time.Hour)
	ex := &stubExchanger{revokeErr: errors.New("network down")}
	b := New(ex)
	defer b.Close()
	if err := b.SetTokens(TokenPair{AccessToken: token}); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	if err := b.SignOut(context.Background()); err == nil {
		t.Fatal("expected revoke failure surfaced")
	}
	if id, _ := b.CurrentIdentity(context.Background()); id == nil {
		t.Fatal("tokens must survive a failed revocation")
	}

	ex.revokeErr = nil
	if err := b.SignOut(context.Background()); err != nil {
		t.Fatalf("retry SignOut: %v", err)
	}
	if id, _ := b.CurrentIdentity(context.Background()); id != nil {
		t.Fatal("expected tokens cleared after successful sign-out")
	}
}

func TestNoExchangerCredentialOps(t *testing.T) {
	b := New(nil)
	defer b.Close()
	if _, err := b.SignInWithPassword(context.Background(), "a@b.test", "pw"); !errors.Is(err, ErrNoExchanger) {
		t.Fatalf("expected ErrNoExchanger, got %v", err)
	}
	if _, err := b.SignUp(context.Background(), "a@b.test", "pw", nil); !errors.Is(err, ErrNoExchanger) {
		t.Fatalf("expected ErrNoExchanger, got %v", err)
	}
}
