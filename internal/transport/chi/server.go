package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/tenant"
	answeruc "github.com/kailas-cloud/docqa/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docqa/internal/usecase/ingest"
	inventoryuc "github.com/kailas-cloud/docqa/internal/usecase/inventory"
	logsuc "github.com/kailas-cloud/docqa/internal/usecase/logs"
)

// maxUploadBytes bounds multipart memory buffering; larger files spill to disk.
const maxUploadBytes = 32 << 20

// Error codes returned to clients.
const (
	CodeBadRequest           = "bad_request"
	CodeValidationFailed     = "validation_failed"
	CodeInvalidIdentity      = "invalid_identity"
	CodeUnsupportedDocument  = "unsupported_document"
	CodeNamespaceNotFound    = "namespace_not_found"
	CodeInvalidCredentials   = "invalid_credentials"
	CodeEmbeddingProviderErr = "embedding_provider_error"
	CodeGenerationError      = "generation_error"
	CodeRetrievalError       = "retrieval_error"
	CodeStorageError         = "storage_error"
	CodeLogWriteError        = "log_write_error"
	CodeInternalError        = "internal_error"
)

// ErrorResponse is the JSON error body for every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadResponse reports a completed ingestion.
type UploadResponse struct {
	Filename  string `json:"filename"`
	Namespace string `json:"namespace"`
	Chunks    int    `json:"chunks"`
}

// AskRequest carries one question.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the generated answer and the measured pipeline latency.
type AskResponse struct {
	Answer         string  `json:"answer"`
	LatencySeconds float64 `json:"latency_seconds"`
}

// LogItem is one audit trail entry.
type LogItem struct {
	ID             int64     `json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Timestamp      time.Time `json:"timestamp"`
	LatencySeconds float64   `json:"latency_seconds"`
}

// LogsResponse lists a tenant's audit trail.
type LogsResponse struct {
	Logs []LogItem `json:"logs"`
}

// FilesResponse summarizes a tenant's ingested documents.
type FilesResponse struct {
	Namespace string   `json:"namespace"`
	Chunks    int      `json:"chunks"`
	Files     []string `json:"files"`
}

// HealthResponse aggregates component health checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the document question answering API over HTTP.
type Server struct {
	ingest        *ingestuc.Service
	answer        *answeruc.Service
	inventory     *inventoryuc.Service
	logs          *logsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	answer *answeruc.Service,
	inventory *inventoryuc.Service,
	logs *logsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:    ingest,
		answer:    answer,
		inventory: inventory,
		logs:      logs,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNamespaceNotFound, http.StatusNotFound, CodeNamespaceNotFound),
		sentinelHandler(domain.ErrInvalidIdentity, http.StatusBadRequest, CodeInvalidIdentity),
		sentinelHandler(domain.ErrUnsupportedDocument, http.StatusBadRequest, CodeUnsupportedDocument),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, CodeEmbeddingProviderErr),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, CodeGenerationError),
		sentinelHandler(domain.ErrRetrieval, http.StatusInternalServerError, CodeRetrievalError),
		sentinelHandler(domain.ErrStorageWrite, http.StatusInternalServerError, CodeStorageError),
		sentinelHandler(domain.ErrLogWrite, http.StatusInternalServerError, CodeLogWriteError),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/upload", s.Upload)
	r.Post("/ask", s.Ask)
	r.Get("/logs", s.Logs)
	r.Get("/files", s.Files)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Upload handles POST /upload. The document arrives as multipart form data
// under the "file" field, is staged to a temp file, and ingested into the
// caller's namespace.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	namespace, ok := s.resolveNamespace(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "file field is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "filename is required")
		return
	}

	data, err := stageUpload(file)
	if err != nil {
		s.logger.Error("stage upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}

	count, err := s.ingest.Ingest(r.Context(), namespace, header.Filename, data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Filename:  header.Filename,
		Namespace: namespace,
		Chunks:    count,
	})
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	namespace, ok := s.resolveNamespace(w, r)
	if !ok {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "question is required")
		return
	}

	answer, err := s.answer.Ask(r.Context(), namespace, IdentityFromContext(r.Context()), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:         answer.Text,
		LatencySeconds: answer.Latency,
	})
}

// Logs handles GET /logs.
func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if _, err := tenant.Resolve(identity); err != nil {
		s.handleDomainError(w, err)
		return
	}

	entries, err := s.logs.List(r.Context(), identity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]LogItem, len(entries))
	for i, e := range entries {
		items[i] = LogItem{
			ID:             e.ID,
			Question:       e.Question,
			Answer:         e.Answer,
			Timestamp:      e.Timestamp,
			LatencySeconds: e.Latency,
		}
	}

	writeJSON(w, http.StatusOK, LogsResponse{Logs: items})
}

// Files handles GET /files.
func (s *Server) Files(w http.ResponseWriter, r *http.Request) {
	namespace, ok := s.resolveNamespace(w, r)
	if !ok {
		return
	}

	summary, err := s.inventory.Describe(r.Context(), namespace)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	files := summary.Sources
	if files == nil {
		files = []string{}
	}

	writeJSON(w, http.StatusOK, FilesResponse{
		Namespace: summary.Namespace,
		Chunks:    summary.ChunkCount,
		Files:     files,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// resolveNamespace maps the authenticated identity to its namespace, writing
// the error response itself when resolution fails.
func (s *Server) resolveNamespace(w http.ResponseWriter, r *http.Request) (string, bool) {
	namespace, err := tenant.Resolve(IdentityFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return "", false
	}
	return namespace, true
}

// stageUpload copies the upload to a temp file and reads it back. The temp
// file is removed on every exit path.
func stageUpload(file io.Reader) ([]byte, error) {
	tmp, err := os.CreateTemp("", "docqa-upload-*")
	if err != nil {
		return nil, err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	return os.ReadFile(name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNamespaceNotFound,
		domain.ErrInvalidIdentity,
		domain.ErrUnsupportedDocument,
		domain.ErrInvalidCredentials,
		domain.ErrEmbeddingProvider,
		domain.ErrGeneration,
		domain.ErrRetrieval,
		domain.ErrStorageWrite,
		domain.ErrLogWrite,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
