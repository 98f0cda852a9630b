package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/fitquest/fitquest/internal/assistant"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PlanGenerator is the slice of the assistant client the routine service
// needs, kept as an interface for the tests.
type PlanGenerator interface {
	GenerateRoutine(ctx context.Context, req assistant.RoutineRequest) (*assistant.RoutineResponse, error)
}

type RoutineService struct {
	routinesRepo repository.RoutinesRepositoryI
	workoutsRepo repository.WorkoutsRepositoryI
	profiles     repository.ProfilesRepositoryI
	generator    PlanGenerator
}

func NewRoutineService(routinesRepo repository.RoutinesRepositoryI, workoutsRepo repository.WorkoutsRepositoryI, profilesRepo repository.ProfilesRepositoryI, generator PlanGenerator) *RoutineService {
	if routinesRepo == nil || workoutsRepo == nil || profilesRepo == nil || generator == nil {
		log.Fatal("provided nil deps to routine service")
	}
	return &RoutineService{
		routinesRepo: routinesRepo,
		workoutsRepo: workoutsRepo,
		profiles:     profilesRepo,
		generator:    generator,
	}
}

func (rs *RoutineService) Generate(ctx context.Context, uid uuid.UUID, req *assistant.RoutineRequest) (*entity.Routine, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	req.History = nil
	req.Cycle = 1
	resp, err := rs.generator.GenerateRoutine(ctx, *req)
	if err != nil {
		// Assistant failures pass through untouched so the handler can
		// translate them for the user.
		if errors.Is(err, errorvalues.ErrSchemaViolation) || errors.Is(err, errorvalues.ErrAssistantUnavailable) {
			return nil, err
		}
		return nil, errors.New("generating routine error: " + err.Error())
	}
	routine := &entity.Routine{
		UserID:    uid,
		Cycle:     1,
		Days:      resp.Days,
		Notes:     resp.Notes,
		CreatedAt: time.Now(),
	}
	if err := rs.routinesRepo.Save(ctx, routine); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	return routine, nil
}

func (rs *RoutineService) Get(ctx context.Context, uid uuid.UUID) (*entity.Routine, error) {
	routine, err := rs.routinesRepo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	return routine, nil
}

// Progress starts the next training cycle: the finished cycle's history
// feeds the generator, the new plan replaces the old one and the workout
// log is cleared in bulk. The clear is best-effort; a leftover log only
// inflates the next progression's history.
func (rs *RoutineService) Progress(ctx context.Context, uid uuid.UUID) (*entity.Routine, error) {
	current, err := rs.routinesRepo.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRoutineNotFound) {
			return nil, err
		}
		return nil, errors.New("routines repository error: " + err.Error())
	}
	profile, err := rs.profiles.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, err
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	history, err := rs.workoutsRepo.GetByUserID(ctx, uid, 500, 0)
	if err != nil {
		return nil, errors.New("workouts repository error: " + err.Error())
	}
	req := assistant.RoutineRequest{
		Sport:       profile.Sport,
		Goal:        profile.Goal,
		Experience:  profile.Experience,
		DaysPerWeek: len(current.Days),
		Cycle:       current.Cycle + 1,
	}
	for _, w := range history {
		req.History = append(req.History, *w)
	}
	resp, err := rs.generator.GenerateRoutine(ctx, req)
	if err != nil {
		if errors.Is(err, errorvalues.ErrSchemaViolation) || errors.Is(err, errorvalues.ErrAssistantUnavailable) {
			return nil, err
		}
		return nil, errors.New("generating next cycle error: " + err.Error())
	}
	routine := &entity.Routine{
		UserID:    uid,
		Cycle:     current.Cycle + 1,
		Days:      resp.Days,
		Notes:     resp.Notes,
		CreatedAt: time.Now(),
	}
	if err := rs.routinesRepo.Save(ctx, routine); err != nil {
		return nil, errors.New("routines repository error: " + err.Error())
	}
	if _, err := rs.workoutsRepo.ClearByUserID(ctx, uid); err != nil {
		slog.Default().Error("clearing workout log failed", slog.String("uid", uid.String()), slog.String("error", err.Error()))
	}
	return routine, nil
}
