package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the JSON shape of every session endpoint response
type envelope struct {
	Status  string      `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func sendSuccessPayload(w http.ResponseWriter, payload interface{}) {
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Payload: payload})
}

func sendSuccessMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Message: message})
}

func sendUserError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Status: statusError, Error: message})
}

func sendUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, envelope{Status: statusError, Error: message})
}

func sendServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, envelope{Status: statusError, Error: message})
}
