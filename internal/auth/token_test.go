package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T, now func() time.Time) *TokenCodec {
	t.Helper()
	codec := NewTokenCodec(testSecret, 24*time.Hour)
	if now != nil {
		codec.now = now
	}
	return codec
}

func TestIssueAndVerify(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, func() time.Time { return issuedAt })

	token, expiresAt, err := codec.Issue("u1", map[string]any{"roles": []string{"admin"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := issuedAt.Add(24 * time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject = %q, want u1", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(expiresAt) {
		t.Errorf("claims expiry = %v, want %v", claims.ExpiresAt, expiresAt)
	}
	if roles := claims.Roles(); len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("roles = %v, want [admin]", roles)
	}
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, func() time.Time { return now })

	token, _, err := codec.Issue("u1", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(24*time.Hour + time.Second)
	if _, err := codec.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("verify after expiry = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyTamperedClaims(t *testing.T) {
	codec := newTestCodec(t, nil)

	token, _, err := codec.Issue("u1", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	tampered := strings.Replace(string(payload), `"u1"`, `"u2"`, 1)
	if tampered == string(payload) {
		t.Fatal("subject not found in payload")
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	if _, err := codec.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("verify tampered = %v, want ErrBadSignature", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	codec := newTestCodec(t, nil)
	other := NewTokenCodec("ffffffffffffffffffffffffffffffff", 24*time.Hour)

	token, _, err := other.Issue("u1", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("verify foreign token = %v, want ErrBadSignature", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := newTestCodec(t, nil)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Verify(%q) = %v, want ErrMalformedToken", token, err)
		}
	}
}

func TestIssueIgnoresReservedExtras(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, func() time.Time { return issuedAt })

	token, _, err := codec.Issue("u1", map[string]any{"sub": "evil", "exp": 0, "scope": "records"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject = %q, reserved claim override leaked", claims.Subject)
	}
	if claims.Extra["scope"] != "records" {
		t.Errorf("scope = %v, want records", claims.Extra["scope"])
	}
}

func TestExtractFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"abc.def.ghi", ""},
		{"", ""},
		{"Bearer ", ""},
		{"bearer abc.def.ghi", ""},
	}
	for _, tc := range cases {
		if got := ExtractFromHeader(tc.header); got != tc.want {
			t.Errorf("ExtractFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
