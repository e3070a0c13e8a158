package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the envelope every error is returned in
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request. Placeholders lists the template
// names a render error refers to.
type ErrorDetail struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	Placeholders []string `json:"placeholders,omitempty"`
}

func RespondWithError(w http.ResponseWriter, statusCode int, code string, message string) {
	RespondWithDetail(w, statusCode, ErrorDetail{Code: code, Message: message})
}

func RespondWithDetail(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: detail})
}

// RespondWithJSON writes payload with the given status and disables caching
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", statusCode).Msg("failed to encode response")
	}
}
