package handler

import (
	"net/http"
)

// NewRouter builds the HTTP handler tree for the API.
func NewRouter(commandHandler *CommandHandler) http.Handler {
	mux := http.NewServeMux()

	commandHandler.Register(mux)

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return WithRequestID(WithAccessLog(WithRecover(mux)))
}
