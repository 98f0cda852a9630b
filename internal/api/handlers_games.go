package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fitquest/fitquest/internal/assistant"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/pkg/httputil"
)

const gamesTimeout = time.Second * 30

func (s *Server) Trivia(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req assistant.TriviaRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("trivia error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gamesTimeout)
	defer cancel()
	resp, err := s.gamesService.Trivia(ctx, &req)
	if err != nil {
		writeGameError(w, logger, err, "trivia")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("trivia generated", slog.Int("questions", len(resp.Questions)))
}

func (s *Server) Quiz(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req assistant.QuizRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("quiz error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gamesTimeout)
	defer cancel()
	resp, err := s.gamesService.Quiz(ctx, &req)
	if err != nil {
		writeGameError(w, logger, err, "quiz")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("quiz graded", slog.Int("score", resp.Score))
}

func (s *Server) Debate(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req assistant.DebateRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("debate error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gamesTimeout)
	defer cancel()
	resp, err := s.gamesService.Debate(ctx, &req)
	if err != nil {
		writeGameError(w, logger, err, "debate")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("debate round played")
}

func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req assistant.ChatRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("chat error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gamesTimeout)
	defer cancel()
	resp, err := s.gamesService.Chat(ctx, &req)
	if err != nil {
		writeGameError(w, logger, err, "chat")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("chat reply provided")
}

func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error, game string) {
	switch {
	case errors.Is(err, errorvalues.ErrAssistantUnavailable), errors.Is(err, errorvalues.ErrSchemaViolation):
		logger.Error(game+" error: assistant failure", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadGateway, "assistant unavailable, try again later", nil)
	default:
		logger.Error(game+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error in "+game, nil)
	}
}
