package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	scanapp "github.com/trustnet-ai/api/internal/application/scan"
	"github.com/trustnet-ai/api/internal/domain"
	"github.com/trustnet-ai/api/internal/transport/http/middleware"
)

// ScanHandler handles media/message analysis endpoints.
type ScanHandler struct {
	svc scanapp.Service
}

func NewScanHandler(svc scanapp.Service) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// Create accepts either a multipart media upload (fields: kind, file) or a
// JSON body with a message to analyze.
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	in := scanapp.AnalyzeInput{UserEmail: claims.Email}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		in.Kind = domain.ScanKindMessage
		in.Message = body.Message
	} else {
		if err := r.ParseMultipartForm(domain.MaxVideoUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer f.Close()

		in.Kind = r.FormValue("kind")
		in.Reader = f
		in.Filename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
		in.Size = header.Size
	}

	scan, err := h.svc.Analyze(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scan)
}

func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scan, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), claims.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// MediaURL returns a short-lived download link for the scan's stored media.
func (h *ScanHandler) MediaURL(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	url, err := h.svc.MediaURL(r.Context(), chi.URLParam(r, "id"), claims.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MediaURLEnvelope{URL: url})
}

func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scans, err := h.svc.List(r.Context(), claims.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}
