package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apexwis/AudioSplitterFaaS/config"
	"github.com/apexwis/AudioSplitterFaaS/core/audio"
	"github.com/apexwis/AudioSplitterFaaS/core/splitter"
	"github.com/apexwis/AudioSplitterFaaS/logger"
	"github.com/apexwis/AudioSplitterFaaS/metrics"
	"github.com/apexwis/AudioSplitterFaaS/model"
	"github.com/apexwis/AudioSplitterFaaS/storage"
)

// maxUploadMemory caps the in-memory portion of multipart parsing; larger
// uploads spill to disk.
const maxUploadMemory = 32 << 20

// AudioSplitter runs the segmentation pipeline for one materialized upload.
type AudioSplitter interface {
	Split(ctx context.Context, src *audio.Source) (*splitter.Result, error)
}

// SplitResponse is the success body for POST /split-audio.
type SplitResponse struct {
	Segments  []model.PublishedSegment `json:"segments"`
	ExpiresIn int                      `json:"expires_in"`
}

// APIHandler handles all API requests.
type APIHandler struct {
	splitter AudioSplitter
	metrics  *metrics.Metrics
	cfg      *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(sp AudioSplitter, m *metrics.Metrics, cfg *config.Config) *APIHandler {
	return &APIHandler{splitter: sp, metrics: m, cfg: cfg}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// IndexHandler serves the liveness text.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("The application is running!"))
}

// HealthzHandler serves a JSON liveness probe.
func (h *APIHandler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthMiddleware rejects requests whose API-Key header does not match the
// configured secret. Rejected requests never reach the pipeline.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("API-Key") != h.cfg.APIKey {
			respondError(w, http.StatusUnauthorized, "Unauthorized access")
			return
		}
		next(w, r)
	}
}

// SplitAudioHandler accepts a multipart upload in the "file" field, splits it
// into four segments and responds with presigned retrieval URLs.
func (h *APIHandler) SplitAudioHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part with an empty filename parses as a plain form value, which is
		// a selected-nothing upload rather than a missing field.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			respondError(w, http.StatusBadRequest, "No file selected")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return
	}

	src, err := audio.NewSource(h.cfg.UploadDir, file, header.Filename)
	if err != nil {
		logger.Error("failed to materialize upload", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer src.Close()

	result, err := h.splitter.Split(r.Context(), src)
	if err != nil {
		h.respondSplitError(w, err)
		return
	}

	h.metrics.IncSplits()
	h.metrics.AddSegmentsPublished(len(result.Segments))
	respondJSON(w, http.StatusOK, SplitResponse{
		Segments:  result.Segments,
		ExpiresIn: result.ExpiresIn,
	})
}

// respondSplitError maps pipeline errors to the HTTP error contract, keeping
// the store failure distinguishable from extraction failures.
func (h *APIHandler) respondSplitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrStoreUnavailable):
		respondError(w, http.StatusInternalServerError, "AWS credentials not available")
	case errors.Is(err, audio.ErrUnreadableMedia), errors.Is(err, audio.ErrExtractionFailed):
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "ffmpeg failed",
			"details": err.Error(),
		})
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
