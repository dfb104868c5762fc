package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// GenericServerError is what clients see when something unexpected fails.
// Details stay in the server log.
const GenericServerError = "something went wrong, please try again later"

// RespondJSON writes a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// RespondError writes a JSON error envelope with the given status code.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServerError logs the underlying failure and returns a generic
// message to the client, never leaking internals.
func RespondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	RespondError(w, http.StatusInternalServerError, GenericServerError)
}
