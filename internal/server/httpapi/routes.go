package httpapi

import "net/http"

// Routes builds the API handler with request id, logging and panic
// recovery applied to every route.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/login", h.Login)

	mux.HandleFunc("GET /api/v1/notes", h.authenticated(h.ListNotes))
	mux.HandleFunc("POST /api/v1/notes", h.authenticated(h.CreateNote))
	mux.HandleFunc("GET /api/v1/notes/{id}", h.authenticated(h.ShowNote))
	mux.HandleFunc("PATCH /api/v1/notes/{id}", h.authenticated(h.UpdateNote))
	mux.HandleFunc("DELETE /api/v1/notes/{id}", h.authenticated(h.DeleteNote))

	mux.HandleFunc("/", h.NotFound)

	return withRequestID(withLogging(h.logger, h.withRecover(mux)))
}
