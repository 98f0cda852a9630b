package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/service"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/fitquest/fitquest/pkg/httputil"
)

type LogWorkoutRequest struct {
	Label    string  `json:"label"`
	Duration int     `json:"duration_min"`
	Volume   float64 `json:"volume_kg"`
}

type GetWorkoutsResponse struct {
	UserID   string                     `json:"uid"`
	Page     int                        `json:"page"`
	Limit    int                        `json:"limit"`
	Workouts []*entity.CompletedWorkout `json:"workouts"`
}

type GrantXPRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type DiamondsRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) LogWorkout(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("log workout error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req LogWorkoutRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("log workout error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.progressService.LogWorkout(ctx, uid, &service.LogWorkoutRequest{
		Label:    req.Label,
		Duration: req.Duration,
		Volume:   req.Volume,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("log workout error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		default:
			logger.Error("log workout error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while logging workout", nil)
		}
		return
	}
	if len(result.NewlyCompleted) > 0 {
		s.leaderboardService.Invalidate(r.Context())
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, result)
	logger.Info("workout logged", slog.Int("new_streak", result.NewStreak))
}

func (s *Server) GetWorkouts(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get workouts error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	workouts, err := s.progressService.Workouts(ctx, uid, service.PaginationOpts{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error("getting workouts list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting workouts list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetWorkoutsResponse{
		UserID:   uid.String(),
		Page:     page,
		Limit:    limit,
		Workouts: workouts,
	})
	logger.Info("workouts provided")
}

func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get state error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := s.progressService.State(ctx, uid)
	if err != nil {
		logger.Error("get state error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting state", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, state)
	logger.Info("state provided")
}

func (s *Server) GetMissions(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get missions error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	missions, err := s.progressService.Missions(ctx, uid, time.Now())
	if err != nil {
		logger.Error("get missions error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting missions", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, missions)
	logger.Info("missions provided")
}

func (s *Server) GrantXP(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("grant xp error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req GrantXPRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Amount <= 0 {
		logger.Error("grant xp error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	grant, err := s.progressService.GrantXP(ctx, uid, req.Amount, req.Reason)
	if err != nil {
		logger.Error("grant xp error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while granting xp", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, grant)
	logger.Info("xp granted", slog.Int("total", grant.Total))
}

func (s *Server) EarnDiamonds(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("earn diamonds error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DiamondsRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Amount <= 0 {
		logger.Error("earn diamonds error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	balance, err := s.progressService.EarnDiamonds(ctx, uid, req.Amount)
	if err != nil {
		logger.Error("earn diamonds error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while earning diamonds", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"balance": balance})
	logger.Info("diamonds earned")
}

func (s *Server) SpendDiamonds(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("spend diamonds error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DiamondsRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Amount <= 0 {
		logger.Error("spend diamonds error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	balance, err := s.progressService.SpendDiamonds(ctx, uid, req.Amount)
	if err != nil {
		logger.Error("spend diamonds error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while spending diamonds", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"balance": balance})
	logger.Info("diamonds spent")
}
