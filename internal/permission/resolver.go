package permission

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Resolver decides whether a request may access protected endpoints.
//
// Without configured tokens any non-empty Authorization header is
// accepted. Otherwise the header must carry one of the tokens as a
// bearer token. Configured tokens in bcrypt form ($2a$, $2b$ or $2y$) are
// compared against their hash.
type Resolver struct {
	tokens []string
	hashes [][]byte
}

func NewResolver(tokens []string) *Resolver {
	r := &Resolver{}

	for _, t := range tokens {
		t = strings.TrimSpace(t)

		switch {
		case t == "":
		case isBcrypt(t):
			r.hashes = append(r.hashes, []byte(t))
		default:
			r.tokens = append(r.tokens, t)
		}
	}

	return r
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func (r *Resolver) IsAllowed(req *http.Request) bool {
	header := req.Header.Get("Authorization")
	if header == "" {
		return false
	}

	// a plain header presence check
	if len(r.tokens) == 0 && len(r.hashes) == 0 {
		return true
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		slog.Debug("rejecting authorization header with unsupported scheme", "scheme", scheme)

		return false
	}

	token = strings.TrimSpace(token)

	for _, t := range r.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return true
		}
	}

	for _, h := range r.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(token)) == nil {
			return true
		}
	}

	return false
}
