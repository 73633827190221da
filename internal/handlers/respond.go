package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serverError logs the cause and returns a generic 500 so storage internals
// never leak to the caller.
func serverError(w http.ResponseWriter, message string, err error) {
	log.WithError(err).Error(message)
	writeError(w, http.StatusInternalServerError, message)
}
