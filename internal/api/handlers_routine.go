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

type GenerateRoutineRequest struct {
	Sport       string   `json:"sport"`
	Goal        string   `json:"goal"`
	Experience  string   `json:"experience"`
	DaysPerWeek int      `json:"days_per_week"`
	Equipment   []string `json:"equipment"`
}

func (s *Server) GenerateRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("generate routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req GenerateRoutineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("generate routine error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	// Plan generation is the slowest call in the API, the model does the
	// heavy lifting.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()
	routine, err := s.routineService.Generate(ctx, uid, &assistant.RoutineRequest{
		Sport:       req.Sport,
		Goal:        req.Goal,
		Experience:  req.Experience,
		DaysPerWeek: req.DaysPerWeek,
		Equipment:   req.Equipment,
	})
	if err != nil {
		writeRoutineError(w, logger, err, "generating routine")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, routine)
	logger.Info("routine generated", slog.Int("cycle", routine.Cycle))
}

func (s *Server) GetRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	routine, err := s.routineService.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			logger.Error("get routine error: no routine yet")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no routine generated yet", nil)
			return
		}
		logger.Error("get routine error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting routine", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, routine)
	logger.Info("routine provided")
}

func (s *Server) ProgressRoutine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("progress routine error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()
	routine, err := s.routineService.Progress(ctx, uid)
	if err != nil {
		writeRoutineError(w, logger, err, "progressing routine")
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, routine)
	logger.Info("routine progressed", slog.Int("cycle", routine.Cycle))
}

func writeRoutineError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, errorvalues.ErrRoutineNotFound):
		logger.Error(action + " error: no routine yet")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "no routine generated yet", nil)
	case errors.Is(err, errorvalues.ErrProfileNotFound):
		logger.Error(action + " error: profile doesn't exist")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "profile doesn't exist, finish onboarding first", nil)
	case errors.Is(err, errorvalues.ErrAssistantUnavailable), errors.Is(err, errorvalues.ErrSchemaViolation):
		logger.Error(action+" error: assistant failure", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadGateway, "plan generator unavailable, try again later", nil)
	default:
		logger.Error(action+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while "+action, nil)
	}
}
