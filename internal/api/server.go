package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"persona-rag/internal/config"
	"persona-rag/internal/ingest"
	"persona-rag/internal/models"
	"persona-rag/internal/parser"
	"persona-rag/internal/rag"
	"persona-rag/internal/store"
)

// Server exposes the query and ingestion pipelines over HTTP. Handlers are
// stateless per request; the store serializes its own writes.
type Server struct {
	rag      *rag.RAG
	ingestor *ingest.Ingestor
	store    store.VectorStore
	cfg      *config.Config
}

func NewServer(ragService *rag.RAG, ingestor *ingest.Ingestor, vectorStore store.VectorStore, cfg *config.Config) *Server {
	return &Server{rag: ragService, ingestor: ingestor, store: vectorStore, cfg: cfg}
}

type queryRequest struct {
	Query string `json:"query"`
	Tone  string `json:"tone,omitempty"`
}

type queryResponse struct {
	ResponseText string   `json:"response_text"`
	Sources      []string `json:"sources"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Handler wires the routes behind the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/upload", s.handleUpload)
	return s.corsMiddleware(mux)
}

// Run serves until ctx is cancelled, then drains for up to 10 seconds.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "persona-rag API is running!"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	// Surface a missing collection as a clear storage error instead of a
	// failed similarity search deep in the pipeline.
	if err := s.store.Ready(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("vector collection storage is not initialized: %v", err))
		return
	}

	answer, err := s.rag.Query(r.Context(), req.Query, req.Tone)
	if err != nil {
		log.Error().Err(err).Str("query", req.Query).Msg("query failed")
		writeError(w, statusFor(err), fmt.Sprintf("an error occurred while processing the query: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{ResponseText: answer.Text, Sources: answer.Sources})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	// Category is validated before any filesystem write or embedding call.
	category := r.FormValue("category")
	if !models.ValidCategory(category) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid category %q, choose one of %v", category, models.Categories))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing file field: %v", err))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "." || filename == "/" || filename == "" {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	// Reject unsupported formats before the file touches disk, so a failed
	// upload leaves no partial state behind.
	if !parser.SupportedFormat(filename) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file format %q", filepath.Ext(filename)))
		return
	}

	saveDir := filepath.Join(s.cfg.RAG.DataDir, category)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error saving file: %v", err))
		return
	}
	savePath := filepath.Join(saveDir, filename)

	out, err := os.Create(savePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error saving file: %v", err))
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error saving file: %v", err))
		return
	}
	out.Close()

	if _, err := s.ingestor.AddFile(r.Context(), savePath, models.Category(category)); err != nil {
		log.Error().Err(err).Str("file", savePath).Msg("upload ingestion failed")
		writeError(w, statusFor(err), fmt.Sprintf("error processing file: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("File '%s' uploaded and embedded under %s.", filename, category),
	})
}

// statusFor maps the error taxonomy to HTTP status codes: client mistakes
// are 400, upstream model failures are 502, everything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrEmbeddingService), errors.Is(err, models.ErrGenerationService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}
