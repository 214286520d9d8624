package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	return NewTokenManager([]byte("test-signing-key-0123456789abcdef"), 24*time.Hour)
}

func TestIssueAndSubjectRoundtrip(t *testing.T) {
	tm := newTestManager(t)
	now := time.Now()

	subjects := []string{"a@x.com", "user@example.com", "first.last+tag@sub.domain.org"}
	for _, subject := range subjects {
		token, exp, err := tm.Issue(subject, []string{"ROLE_USER"}, now)
		if err != nil {
			t.Fatalf("Issue(%q): %v", subject, err)
		}
		if want := now.Add(24 * time.Hour); !exp.Equal(want) {
			t.Errorf("expiry = %v, want %v", exp, want)
		}

		got, err := tm.Subject(token)
		if err != nil {
			t.Fatalf("Subject: %v", err)
		}
		if got != subject {
			t.Errorf("Subject = %q, want %q", got, subject)
		}
	}
}

func TestAuthoritiesRoundtrip(t *testing.T) {
	tm := newTestManager(t)

	token, _, err := tm.Issue("a@x.com", []string{"ROLE_ADMIN"}, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	authorities, err := tm.Authorities(token)
	if err != nil {
		t.Fatalf("Authorities: %v", err)
	}
	if len(authorities) != 1 || authorities[0] != "ROLE_ADMIN" {
		t.Errorf("Authorities = %v, want [ROLE_ADMIN]", authorities)
	}
}

func TestIsValidBoundaries(t *testing.T) {
	tm := newTestManager(t)
	now := time.Unix(1700000000, 0)

	token, _, err := tm.Issue("a@x.com", nil, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"immediately after issuance", now, true},
		{"just before expiry", now.Add(24*time.Hour - time.Second), true},
		{"at expiry", now.Add(24 * time.Hour), false},
		{"after expiry", now.Add(24*time.Hour + time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tm.IsValid(token, "a@x.com", tc.at); got != tc.want {
				t.Errorf("IsValid at %v = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestIsValidSubjectMismatch(t *testing.T) {
	tm := newTestManager(t)
	now := time.Now()

	token, _, err := tm.Issue("a@x.com", nil, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tm.IsValid(token, "b@x.com", now) {
		t.Error("IsValid accepted a mismatched subject")
	}
}

func TestTamperedSignatureRejected(t *testing.T) {
	tm := newTestManager(t)
	now := time.Now()

	token, _, err := tm.Issue("a@x.com", nil, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := tm.Subject(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Subject(tampered) error = %v, want ErrInvalidSignature", err)
	}
	for _, subject := range []string{"a@x.com", "b@x.com", ""} {
		if tm.IsValid(tampered, subject, now) {
			t.Errorf("IsValid(tampered, %q) = true", subject)
		}
	}
}

func TestForeignKeyRejected(t *testing.T) {
	tm := newTestManager(t)
	other := NewTokenManager([]byte("another-key-entirely-000000000000"), 24*time.Hour)

	token, _, err := other.Issue("a@x.com", nil, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm.Subject(token); err == nil {
		t.Error("Subject accepted a token signed with a different key")
	}
	if tm.IsValid(token, "a@x.com", time.Now()) {
		t.Error("IsValid accepted a token signed with a different key")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	tm := newTestManager(t)

	for _, tokenStr := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		if _, err := tm.Subject(tokenStr); err == nil {
			t.Errorf("Subject(%q) succeeded, want error", tokenStr)
		}
		if tm.IsValid(tokenStr, "a@x.com", time.Now()) {
			t.Errorf("IsValid(%q) = true", tokenStr)
		}
	}
}

func TestSubjectIgnoresExpiry(t *testing.T) {
	tm := newTestManager(t)
	issuedAt := time.Now().Add(-48 * time.Hour)

	token, _, err := tm.Issue("a@x.com", nil, issuedAt)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Identity stays decodable after expiry for logging and lookups.
	subject, err := tm.Subject(token)
	if err != nil {
		t.Fatalf("Subject on expired token: %v", err)
	}
	if subject != "a@x.com" {
		t.Errorf("Subject = %q, want a@x.com", subject)
	}
	if tm.IsValid(token, "a@x.com", time.Now()) {
		t.Error("IsValid accepted an expired token")
	}
}

func TestExpiry(t *testing.T) {
	tm := newTestManager(t)
	now := time.Unix(1700000000, 0)

	token, exp, err := tm.Issue("a@x.com", nil, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tm.Expiry(token)
	if err != nil {
		t.Fatalf("Expiry: %v", err)
	}
	if !got.Equal(exp.Truncate(time.Second)) {
		t.Errorf("Expiry = %v, want %v", got, exp.Truncate(time.Second))
	}
}
