package kernel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/services"
)

// MaxBodyBytes caps the JSON body of an ask request.
const MaxBodyBytes = 16 << 10

// DefaultRequestTimeout bounds a whole question when ServerOptions leaves it unset.
const DefaultRequestTimeout = 60 * time.Second

// Asker answers a single question.
type Asker interface {
	Ask(ctx context.Context, raw string) services.AskResult
}

// ServerOptions configures a Server.
type ServerOptions struct {
	RequestTimeout time.Duration
}

// Server is the HTTP boundary around the question pipeline.
type Server struct {
	logger         *slog.Logger
	asker          Asker
	toolRegistry   *domain.ToolRegistry
	requestTimeout time.Duration
}

func NewServer(logger *slog.Logger, asker Asker, toolRegistry *domain.ToolRegistry, opts ServerOptions) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Server{
		logger:         logger,
		asker:          asker,
		toolRegistry:   toolRegistry,
		requestTimeout: opts.RequestTimeout,
	}
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ask", s.handleAsk)
	// Path used by the existing frontend.
	mux.HandleFunc("/.netlify/functions/ask", s.handleAsk)
	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestID(s.withLogging(mux))
}

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk answers a question.
// POST /api/ask  {"question": "..."}
// GET  /api/ask?q=...
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, domain.AnswerResponse{Error: "method not allowed"})
		return
	}

	question, hasBody, err := readQuestionBody(w, r)
	if err != nil {
		s.logger.Warn("rejected ask body", "error", err)
		writeJSON(w, http.StatusBadRequest, domain.AnswerResponse{Error: err.Error()})
		return
	}
	if !hasBody {
		var q string
		if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
			writeJSON(w, http.StatusBadRequest, domain.AnswerResponse{Error: "invalid query parameter q"})
			return
		}
		question = q
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result := s.asker.Ask(ctx, question)
	writeJSON(w, result.Status, result.Response)
}

var (
	errBodyTooLarge = errors.New("request body too large")
	errInvalidBody  = errors.New("invalid JSON body")
)

// readQuestionBody decodes {"question": ...} from a POST body. hasBody is
// false for GET and for a POST without a body, which fall back to ?q=.
func readQuestionBody(w http.ResponseWriter, r *http.Request) (question string, hasBody bool, err error) {
	if r.Method != http.MethodPost || r.Body == nil {
		return "", false, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", true, errBodyTooLarge
		}
		return "", true, errInvalidBody
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return "", false, nil
	}
	var req askRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", true, errInvalidBody
	}
	return req.Question, true, nil
}

// handleListTools returns the descriptors offered to the model.
// GET /api/tools
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	descriptors := []domain.ToolDescriptor{}
	if s.toolRegistry != nil {
		descriptors = s.toolRegistry.Descriptors()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": descriptors,
		"count": len(descriptors),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
