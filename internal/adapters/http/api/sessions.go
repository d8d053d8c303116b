package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/remonster/internal/domain/model"
)

// maxSubmitBytes bounds the body of a submit request.
const maxSubmitBytes = 64 << 10

// SessionsHandler serves the analysis session routes.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	sess, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.SessionID)
	writeJSON(w, http.StatusCreated, sess)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	st, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.EndSession(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit handles POST /sessions/{id}/submit. It answers 202 while the
// analysis runs and 200 when the text was rejected outright.
func (h *SessionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	st, err := h.deps.Submit(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	status := http.StatusOK
	if st.Phase == model.PhaseLoading {
		status = http.StatusAccepted
	}
	writeJSON(w, status, st)
}

// HandleToggle handles POST /sessions/{id}/toggle.
func (h *SessionsHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle"
	st, err := h.deps.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleVisualization handles GET /sessions/{id}/visualization. A session
// without a result answers 409.
func (h *SessionsHandler) HandleVisualization(w http.ResponseWriter, r *http.Request) {
	const op = "api.visualization"
	vis, err := h.deps.Visualization(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, vis)
}
