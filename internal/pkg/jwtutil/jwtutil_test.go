package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("secret", 30*time.Minute)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id: got %d, want 42", userID)
	}
}

func TestVerify_Expired(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewManager("secret", time.Minute).WithClock(fixedClock(start))

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.WithClock(fixedClock(start.Add(59 * time.Second))).Verify(token); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	_, err = issuer.WithClock(fixedClock(start.Add(time.Minute + time.Second))).Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify after ttl: got %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = NewManager("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{"HS512": hs512, "none": none} {
		if _, err := m.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("%s: got %v, want ErrTokenMalformed", name, err)
		}
	}
}

func TestVerify_Malformed(t *testing.T) {
	m := NewManager("secret", time.Hour)
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := m.Verify(raw); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q): got %v", raw, err)
		}
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 3}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
}
