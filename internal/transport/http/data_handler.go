package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/app"
	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds a single collection upload.
const maxBodyBytes = 10 << 20

// DataHandler serves the shared evaluation document over /api.
type DataHandler struct {
	repo app.DocumentRepository
	now  func() time.Time
}

func NewDataHandler(repo app.DocumentRepository) *DataHandler {
	return &DataHandler{repo: repo, now: time.Now}
}

type errorPayload struct {
	Error string `json:"error"`
}

type successPayload struct {
	Success bool `json:"success"`
}

type healthPayload struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Routes registers the API on a new mux and wraps it with permissive CORS.
func (h *DataHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/data", h.getDocument)
	mux.HandleFunc("GET /api/data/{key}", h.getCollection)
	mux.HandleFunc("PUT /api/data/{key}", h.putCollection)
	mux.HandleFunc("POST /api/reset", h.reset)
	mux.HandleFunc("GET /api/health", h.health)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func (h *DataHandler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.repo.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load document failed")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "failed to load data"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DataHandler) getCollection(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	value, err := h.repo.Get(r.Context(), key)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "Key not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("collection", key).Msg("load collection failed")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "failed to load data"})
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (h *DataHandler) putCollection(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid JSON body"})
		return
	}
	if err := h.repo.Put(r.Context(), key, json.RawMessage(body)); err != nil {
		log.Error().Err(err).Str("collection", key).Msg("save collection failed")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "failed to save data"})
		return
	}
	log.Debug().Str("collection", key).Int("bytes", len(body)).Msg("collection replaced")
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (h *DataHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Reset(r.Context()); err != nil {
		log.Error().Err(err).Msg("reset failed")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "failed to reset data"})
		return
	}
	log.Info().Msg("document reset")
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (h *DataHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload{Status: "ok", Timestamp: h.now().UnixMilli()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response failed")
	}
}
