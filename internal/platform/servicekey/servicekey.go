// Package servicekey authorizes service-to-service calls.
//
// The default "static" mode sends one shared secret in X-Service-Key and the
// receiver compares it by equality. The secret never rotates, carries no
// caller identity and never expires. The "signed" mode uses the same secret
// as an HS256 key for short-lived tokens in X-Service-Token and is the
// setting to prefer in production.
package servicekey

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	HeaderKey   = "X-Service-Key"
	HeaderToken = "X-Service-Token"

	ModeStatic = "static"
	ModeSigned = "signed"

	Audience = "user-service"

	defaultTokenTTL = 60 * time.Second
)

var (
	ErrMissingCredentials = errors.New("missing service credentials")
	ErrInvalidCredentials = errors.New("invalid service credentials")
)

type Authorizer struct {
	mode   string
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthorizer(mode, key, issuer string) (*Authorizer, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeStatic
	}
	if mode != ModeStatic && mode != ModeSigned {
		return nil, fmt.Errorf("unknown service auth mode %q", mode)
	}
	if key == "" {
		return nil, errors.New("service key is empty")
	}
	return &Authorizer{
		mode:   mode,
		key:    []byte(key),
		issuer: issuer,
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}, nil
}

func (a *Authorizer) Mode() string { return a.mode }

// Apply sets the credential header on an outgoing request.
func (a *Authorizer) Apply(req *http.Request) error {
	if a.mode == ModeStatic {
		req.Header.Set(HeaderKey, string(a.key))
		return nil
	}
	token, err := a.sign()
	if err != nil {
		return err
	}
	req.Header.Set(HeaderToken, token)
	return nil
}

// Verify checks the credential header of an incoming request.
func (a *Authorizer) Verify(h http.Header) error {
	if a.mode == ModeStatic {
		got := h.Get(HeaderKey)
		if got == "" {
			return ErrMissingCredentials
		}
		if subtle.ConstantTimeCompare([]byte(got), a.key) != 1 {
			return ErrInvalidCredentials
		}
		return nil
	}

	raw := h.Get(HeaderToken)
	if raw == "" {
		return ErrMissingCredentials
	}
	_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.key, nil
	},
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}

func (a *Authorizer) sign() (string, error) {
	now := a.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})
	return t.SignedString(a.key)
}
