package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ndewijer/Broker-Document-Importer/internal/api/response"
)

// timeTokenWindow is the validity period of one X-Time-Token value.
// Tokens of the previous window are still accepted to tolerate clock skew.
const timeTokenWindow = 5 * time.Minute

// APIKeyMiddleware protects mutating endpoints. Callers send the shared key
// (INTERNAL_API_KEY) in X-API-Key and a short-lived X-Time-Token derived from
// it with GenerateTimeToken.
//
// Returns 500 when no key is configured and 401 for a missing or wrong key or token.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("INTERNAL_API_KEY")
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
			return
		}

		providedKey := r.Header.Get("X-API-Key")
		if providedKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if !validTimeToken(apiKey, timeToken, time.Now()) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken returns the X-Time-Token for the current time window.
func GenerateTimeToken(apiKey string) string {
	return timeToken(apiKey, window(time.Now()))
}

func window(t time.Time) int64 {
	return t.Unix() / int64(timeTokenWindow/time.Second)
}

func timeToken(apiKey string, w int64) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(strconv.FormatInt(w, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validTimeToken(apiKey, token string, now time.Time) bool {
	current := window(now)
	for _, w := range []int64{current, current - 1} {
		if hmac.Equal([]byte(token), []byte(timeToken(apiKey, w))) {
			return true
		}
	}
	return false
}
