// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/middleware"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// currentUserID pulls the authenticated identity off the request context.
func currentUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// writeGuardError maps ownership guard outcomes onto the API contract:
// a missing entity stays 404 and a foreign entity stays 403, so
// existence never leaks to non-owners.
func writeGuardError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, "Not found", http.StatusNotFound)
		return true
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, "Access denied", http.StatusForbidden)
		return true
	}
	return false
}
