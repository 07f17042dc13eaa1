package utils

import (
	"encoding/json"
	"net/http"

	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

// RespondJSON writes a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Default().Error("failed to encode response", "error", err)
	}
}

// RespondError writes a {"error": message} body with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}
