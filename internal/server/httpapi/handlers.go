// Package httpapi serves the JSON notes API over net/http.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const maxBodyBytes = 1 << 20

// Authenticator is implemented by services.UserService.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, header string) (models.Identity, error)
}

// NoteService is implemented by services.NoteService.
type NoteService interface {
	List(ctx context.Context, ownerID int64) ([]models.Note, error)
	Get(ctx context.Context, ownerID, noteID int64) (*models.Note, error)
	Create(ctx context.Context, ownerID int64, title, body string) (*models.Note, error)
	Update(ctx context.Context, ownerID, noteID int64, u models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, ownerID, noteID int64) error
}

type Handlers struct {
	users  Authenticator
	notes  NoteService
	logger logging.Logger
}

func NewHandlers(l logging.Logger, us Authenticator, ns NoteService) *Handlers {
	return &Handlers{users: us, notes: ns, logger: l.With("module", "http_api")}
}

// authedHandlerFunc receives the caller identity resolved from the bearer
// token.
type authedHandlerFunc func(w http.ResponseWriter, r *http.Request, id models.Identity)

// authenticated rejects the request with 401 before next runs unless the
// Authorization header resolves to a user.
func (h *Handlers) authenticated(next authedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := h.users.Authenticate(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r, id)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {

	var req loginRequest

	if isForm(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %v", common.ErrBadRequest, err))
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
	} else if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request, id models.Identity) {
	list, err := h.notes.List(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]noteResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toNoteResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ShowNote(w http.ResponseWriter, r *http.Request, id models.Identity) {
	noteID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.notes.Get(r.Context(), id.UserID, noteID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

type createNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request, id models.Identity) {
	var req createNoteRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, err)
		return
	}

	n, err := h.notes.Create(r.Context(), id.UserID, req.Title, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request, id models.Identity) {
	noteID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, err)
		return
	}

	u, err := toNoteUpdate(raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.notes.Update(r.Context(), id.UserID, noteID, u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request, id models.Identity) {
	noteID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.notes.Delete(r.Context(), id.UserID, noteID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, common.ErrorNotFound)
}

// pathID parses the {id} segment. Anything that is not a positive int64
// cannot name a note and is reported as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

// toNoteUpdate keeps only the title and body keys. A JSON null clears the
// field to the empty string.
func toNoteUpdate(raw map[string]json.RawMessage) (models.NoteUpdate, error) {
	var u models.NoteUpdate

	for key, dst := range map[string]**string{"title": &u.Title, "body": &u.Body} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var v *string
		if err := json.Unmarshal(msg, &v); err != nil {
			return models.NoteUpdate{}, fmt.Errorf("%w: %s: %v", common.ErrBadRequest, key, err)
		}
		if v == nil {
			v = new(string)
		}
		*dst = v
	}

	return u, nil
}

// decodeJSON reads a single JSON value from the request body. An empty body
// yields io.EOF unwrapped so callers may treat it as "no fields".
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %v", common.ErrBadRequest, err)
	}
	return nil
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}
