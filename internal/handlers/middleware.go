package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"spellsprint/internal/security"
)

// TokenCookieName is the player identity cookie
const TokenCookieName = "spellsprint_token"

type contextKey string

const (
	playerIDKey   contextKey = "playerID"
	playerNameKey contextKey = "playerName"
)

// PlayerID returns the authenticated player ID from the request context
func PlayerID(r *http.Request) string {
	id, _ := r.Context().Value(playerIDKey).(string)
	return id
}

// PlayerName returns the authenticated player name from the request context
func PlayerName(r *http.Request) string {
	name, _ := r.Context().Value(playerNameKey).(string)
	return name
}

// RequirePlayer verifies the identity cookie and loads the player into the
// request context
func RequirePlayer(tokens *security.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookieName)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "player identity required")
				return
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "invalid player token")
				return
			}

			ctx := context.WithValue(r.Context(), playerIDKey, claims.Subject)
			ctx = context.WithValue(ctx, playerNameKey, claims.PlayerName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit rejects clients that exceed the per-IP budget
func RateLimit(limiter *security.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.Allow(ip) {
				respondWithError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs each request with its duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
