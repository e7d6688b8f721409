package handler

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edgeform/edgeform/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit ingests a form response from the embed snippet. No auth: the
// endpoint is what embedded forms post to.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormID     string            `json:"formId"`
		Submission map[string]string `json:"submission"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == "" || len(req.Submission) == 0 {
		writeError(w, http.StatusBadRequest, "Missing formId or submission data")
		return
	}

	sub, err := h.svc.Create(r.Context(), req.FormID, req.Submission, clientAddr(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"submissionId": sub.ID})
}

// ListPublic returns every indexed submission for a form in arrival
// order. The public and admin listings shipped with different pagination
// and sorting; both are kept as-is.
func (h *SubmissionHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formId")
	if formID == "" {
		writeError(w, http.StatusBadRequest, "Missing formId parameter")
		return
	}

	subs, err := h.svc.ListAll(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"submissions": subs})
}

// ListAdmin returns the most recent submissions, newest first, capped at
// limit (default 50).
func (h *SubmissionHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formId")
	if formID == "" {
		writeError(w, http.StatusBadRequest, "Missing formId parameter")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.svc.List(r.Context(), formID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"submissions": subs})
}

// Delete removes a submission record and drops it from the form index.
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formId")
	subID := r.URL.Query().Get("submissionId")
	if formID == "" || subID == "" {
		writeError(w, http.StatusBadRequest, "Missing submissionId or formId parameter")
		return
	}

	if err := h.svc.Delete(r.Context(), formID, subID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// Stats reports the per-form submission count from the index.
func (h *SubmissionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formId")

	count, err := h.svc.CountByForm(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]any{"formId": formID, "submissionCount": count})
}

// clientAddr extracts the submitting client's address, preferring the
// edge-provided forwarding headers over the socket peer.
func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
