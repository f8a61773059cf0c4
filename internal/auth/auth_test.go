package auth

import (
	"strings"
	"sync"
	"testing"
)

func TestCSRFTokenIdempotentUntilConsumed(t *testing.T) {
	session := &Session{}
	token := session.GenerateCSRFToken()
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if again := session.GenerateCSRFToken(); again != token {
		t.Fatalf("regenerated before consumption: %q != %q", again, token)
	}
}

func TestCSRFTokenSingleUse(t *testing.T) {
	session := &Session{}
	token := session.GenerateCSRFToken()

	if !session.CheckCSRFToken(token) {
		t.Fatal("expected the active token to validate")
	}
	if session.CheckCSRFToken(token) {
		t.Fatal("expected a consumed token to be rejected")
	}

	if next := session.GenerateCSRFToken(); next == token {
		t.Fatal("expected a fresh token after consumption")
	}
}

func TestCSRFTokenMismatchRejectedAndConsumed(t *testing.T) {
	session := &Session{}
	token := session.GenerateCSRFToken()

	if session.CheckCSRFToken("not-the-token") {
		t.Fatal("expected a mismatching token to be rejected")
	}
	// Any check consumes the active token, so even the real one is now
	// dead.
	if session.CheckCSRFToken(token) {
		t.Fatal("expected the original token to be consumed by the failed check")
	}
}

func TestCheckWithoutActiveToken(t *testing.T) {
	session := &Session{}
	if session.CheckCSRFToken("") {
		t.Fatal("expected empty candidate against no token to fail")
	}
	if session.CheckCSRFToken("anything") {
		t.Fatal("expected check without active token to fail")
	}
}

func TestIsAdmin(t *testing.T) {
	session := &Session{}
	if session.IsAdmin() {
		t.Fatal("anonymous session must not be admin")
	}
	session.Login("admin")
	if !session.IsAdmin() {
		t.Fatal("logged-in session must be admin")
	}
}

// Runs under -race: concurrent requests from one browser share a session
// record, so token and login access from parallel goroutines must be safe.
func TestSessionConcurrentAccess(t *testing.T) {
	session := &Session{}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token := session.GenerateCSRFToken()
				session.CheckCSRFToken(token)
				session.Login("admin")
				session.IsAdmin()
			}
		}()
	}
	wg.Wait()
	if !session.IsAdmin() {
		t.Fatal("expected the session to end up logged in")
	}
}

func TestSessionsLifecycle(t *testing.T) {
	sessions := NewSessions()
	session := sessions.New()
	if session.ID == "" {
		t.Fatal("expected a session id")
	}
	if got := sessions.Get(session.ID); got != session {
		t.Fatalf("Get returned %+v, want the minted session", got)
	}
	if got := sessions.Get("unknown"); got != nil {
		t.Fatalf("Get(unknown) = %+v, want nil", got)
	}

	session.Login("admin")
	session.GenerateCSRFToken()
	sessions.Forget(session.ID)
	if got := sessions.Get(session.ID); got != nil {
		t.Fatalf("expected forgotten session to be gone, got %+v", got)
	}
}

func TestVerifyPasswordPlaintext(t *testing.T) {
	if !VerifyPassword("admin", "admin") {
		t.Fatal("expected matching plaintext password to verify")
	}
	if VerifyPassword("admin", "wrong") {
		t.Fatal("expected mismatching plaintext password to fail")
	}
	if VerifyPassword("", "") {
		t.Fatal("expected empty stored password to fail")
	}
}

func TestVerifyPasswordArgon2id(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("expected correct password to verify against hash")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail against hash")
	}
	if VerifyPassword("$argon2id$garbage", "s3cret") {
		t.Fatal("expected malformed hash to fail closed")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected an error for the empty password")
	}
}

func TestParseArgon2idHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("round-trip")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	parsed, err := ParseArgon2idHash(hash)
	if err != nil {
		t.Fatalf("parse hash: %v", err)
	}
	if !parsed.Verify("round-trip") {
		t.Fatal("expected parsed hash to verify")
	}

	for _, bad := range []string{
		"",
		"$argon2i$v=19$m=65536,t=3,p=1$c2FsdA$c3Vt",
		"$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$c3Vt",
		"$argon2id$v=19$m=65536,t=3$c2FsdA$c3Vt",
		"$argon2id$v=19$m=65536,t=3,p=1$!!$c3Vt",
	} {
		if _, err := ParseArgon2idHash(bad); err == nil {
			t.Errorf("expected parse error for %q", bad)
		}
	}
}
