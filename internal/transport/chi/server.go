// Package chi exposes the mentor HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/edulab-cloud/mentor/internal/domain"
	chatuc "github.com/edulab-cloud/mentor/internal/usecase/chat"
	healthuc "github.com/edulab-cloud/mentor/internal/usecase/health"
	interactionuc "github.com/edulab-cloud/mentor/internal/usecase/interaction"
	recommenduc "github.com/edulab-cloud/mentor/internal/usecase/recommend"
)

// Error codes returned in error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeInternalError    = "internal_error"
)

const defaultUserID = "anonymous"

// Server holds the HTTP handlers over the use case services.
type Server struct {
	chat         *chatuc.Service
	recommender  *recommenduc.Service
	interactions *interactionuc.Service
	health       *healthuc.Service
	defaultNum   int
	maxNum       int
	logger       *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	chat *chatuc.Service,
	recommender *recommenduc.Service,
	interactions *interactionuc.Service,
	health *healthuc.Service,
	defaultNum, maxNum int,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:         chat,
		recommender:  recommender,
		interactions: interactions,
		health:       health,
		defaultNum:   defaultNum,
		maxNum:       maxNum,
		logger:       logger,
	}
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/chat", s.handleChat)
	r.Post("/recommend", s.handleRecommend)
	r.Post("/interaction", s.handleInteraction)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response   string               `json:"response"`
	Source     string               `json:"source"`
	TopMatches []domain.MatchResult `json:"top_matches"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"message is required and must be a non-empty string")
		return
	}

	res := s.chat.Chat(r.Context(), userOrAnonymous(req.UserID), req.Message)

	top := res.TopMatches
	if top == nil {
		top = []domain.MatchResult{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:   res.Response,
		Source:     string(res.Source),
		TopMatches: top,
	})
}

type recommendRequest struct {
	UserID string `json:"user_id"`
	Num    *int   `json:"num"`
}

type recommendResponse struct {
	Recommendations []domain.Material `json:"recommendations"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	num := s.defaultNum
	if req.Num != nil {
		num = *req.Num
	}
	if num < 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "num must be a positive integer")
		return
	}
	if num > s.maxNum {
		num = s.maxNum
	}

	recs, err := s.recommender.Recommend(r.Context(), userOrAnonymous(req.UserID), num)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if recs == nil {
		recs = []domain.Material{}
	}
	writeJSON(w, http.StatusOK, recommendResponse{Recommendations: recs})
}

type interactionRequest struct {
	UserID     string `json:"user_id"`
	MaterialID string `json:"material_id"`
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.MaterialID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "material_id is required")
		return
	}

	if err := s.interactions.Record(r.Context(), userOrAnonymous(req.UserID), req.MaterialID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type healthResponse struct {
	Status string                          `json:"status"`
	Time   string                          `json:"time"`
	Checks map[string]healthuc.CheckResult `json:"checks,omitempty"`
}

// handleHealth always answers 200; a failing ledger degrades the status but
// never the endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status: string(report.Status),
		Time:   time.Now().UTC().Format(time.RFC3339),
		Checks: report.Checks,
	})
}

// handleDomainError maps sentinel errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	s.logger.Error("unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// decodeBody decodes a JSON request body. An empty body decodes to the zero
// value, matching the API's optional-field defaults.
func decodeBody(r *http.Request, out any) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func userOrAnonymous(userID string) string {
	if userID == "" {
		return defaultUserID
	}
	return userID
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
