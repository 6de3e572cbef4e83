package web

// errors.go provides unified error response handling for the web layer.
//
// Technical errors are logged with the request ID and mapped through
// core.MapError to a message and support code for the client. API routes
// answer in JSON, everything else in plain text.

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/logging"
)

// notFoundCode is the support code of 404 responses.
const notFoundCode = "HTTP404"

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and returns a user-friendly error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	respond(w, r, userMsg, statusCode)
}

// respondNotFound answers 404 with message.
func respondNotFound(w http.ResponseWriter, r *http.Request, message string) {
	respond(w, r, core.UserMessage{Message: message, Code: notFoundCode}, http.StatusNotFound)
}

func respond(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	if !wantsJSON(r) {
		http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
