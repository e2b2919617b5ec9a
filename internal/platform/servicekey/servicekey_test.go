package servicekey

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticModeRoundTrip(t *testing.T) {
	a, err := NewAuthorizer("", "s3cr3t", "course-service")
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	if a.Mode() != ModeStatic {
		t.Fatalf("default mode=%q", a.Mode())
	}

	req := httptest.NewRequest(http.MethodPost, "/users/u1/enroll/c1", nil)
	if err := a.Apply(req); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := req.Header.Get(HeaderKey); got != "s3cr3t" {
		t.Fatalf("header=%q", got)
	}
	if err := a.Verify(req.Header); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestStaticModeRejectsWrongOrMissingKey(t *testing.T) {
	a, _ := NewAuthorizer(ModeStatic, "s3cr3t", "course-service")

	if err := a.Verify(http.Header{}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	h := http.Header{}
	h.Set(HeaderKey, "guess")
	if err := a.Verify(h); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignedModeRoundTrip(t *testing.T) {
	client, _ := NewAuthorizer(ModeSigned, "s3cr3t", "course-service")
	server, _ := NewAuthorizer(ModeSigned, "s3cr3t", "")

	req := httptest.NewRequest(http.MethodPost, "/users/u1/bookmark/c1", nil)
	if err := client.Apply(req); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if req.Header.Get(HeaderKey) != "" {
		t.Fatal("signed mode must not leak the static key")
	}
	if err := server.Verify(req.Header); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSignedModeRejectsExpiredAndForeignTokens(t *testing.T) {
	client, _ := NewAuthorizer(ModeSigned, "s3cr3t", "course-service")
	client.now = func() time.Time { return time.Now().Add(-10 * time.Minute) }
	server, _ := NewAuthorizer(ModeSigned, "s3cr3t", "")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	_ = client.Apply(req)
	if err := server.Verify(req.Header); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expired token: expected ErrInvalidCredentials, got %v", err)
	}

	other, _ := NewAuthorizer(ModeSigned, "other-key", "course-service")
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	_ = other.Apply(req)
	if err := server.Verify(req.Header); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("foreign key: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestNewAuthorizerValidates(t *testing.T) {
	if _, err := NewAuthorizer("mtls", "k", ""); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if _, err := NewAuthorizer(ModeStatic, "", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}
