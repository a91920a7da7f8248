// Package authz authenticates cart service callers with HS256 bearer tokens.
// The token subject owns the carts created under it.
package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
)

type ctxKey struct{}

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type Authz struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Authz {
	return &Authz{cfg: cfg, now: time.Now}
}

// Require rejects requests without a valid bearer token and stores the
// token subject in the context.
func (a *Authz) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := interceptors.BearerToken(r)
		if !ok {
			unauth(w, "invalid_request", "missing bearer token")
			return
		}

		subject, err := a.Verify(raw)
		if err != nil {
			unauth(w, "invalid_token", err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verify checks signature, issuer, audience and expiry, allowing 30s of
// clock skew, and returns the subject.
func (a *Authz) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.cfg.Secret), nil
	},
		jwt.WithLeeway(30*time.Second),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithAudience(a.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid jwt: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("invalid jwt: missing subject")
	}
	return claims.Subject, nil
}

// IssueToken signs a token for subject. Used by local tooling and tests.
func (a *Authz) IssueToken(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{a.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Secret))
}

// Subject returns the authenticated caller stored by Require.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

func unauth(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": http.StatusUnauthorized,
		"title":  "Unauthorized",
		"detail": desc,
	})
}
