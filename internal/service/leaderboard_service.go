package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/fitquest/fitquest/internal/cache"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/pkg/entity"
	"github.com/google/uuid"
)

const topN = 10

// TopTenCache is the redis-backed leaderboard snapshot. Failures degrade to
// the database scan, never to an error for the caller.
type TopTenCache interface {
	GetTopTen(ctx context.Context) ([]entity.Profile, error)
	SetTopTen(ctx context.Context, profiles []entity.Profile) error
	Invalidate(ctx context.Context) error
}

type LeaderboardService struct {
	profiles repository.ProfilesRepositoryI
	cache    TopTenCache
	logger   *slog.Logger
}

func NewLeaderboardService(profilesRepo repository.ProfilesRepositoryI, topTenCache TopTenCache) *LeaderboardService {
	if profilesRepo == nil {
		log.Fatal("provided nil profiles repo to leaderboard service")
	}
	return &LeaderboardService{
		profiles: profilesRepo,
		cache:    topTenCache,
		logger:   slog.Default(),
	}
}

func (ls *LeaderboardService) Get(ctx context.Context, uid uuid.UUID) (*entity.Leaderboard, error) {
	top, err := ls.topTen(ctx)
	if err != nil {
		return nil, err
	}
	board := &entity.Leaderboard{TopTen: make([]entity.LeaderboardEntry, 0, len(top))}
	for i, p := range top {
		board.TopTen = append(board.TopTen, entity.LeaderboardEntry{Profile: p, Rank: i + 1})
	}

	profile, err := ls.profiles.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			// No profile means no rank, not an error.
			return board, nil
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	rank, err := ls.profiles.Rank(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return board, nil
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	board.CurrentUser = &entity.LeaderboardEntry{Profile: *profile, Rank: rank}
	return board, nil
}

func (ls *LeaderboardService) Invalidate(ctx context.Context) {
	if ls.cache == nil {
		return
	}
	if err := ls.cache.Invalidate(ctx); err != nil {
		ls.logger.Error("invalidating leaderboard cache failed", slog.String("error", err.Error()))
	}
}

func (ls *LeaderboardService) topTen(ctx context.Context) ([]entity.Profile, error) {
	if ls.cache != nil {
		cached, err := ls.cache.GetTopTen(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			ls.logger.Error("reading leaderboard cache failed", slog.String("error", err.Error()))
		}
	}
	top, err := ls.profiles.TopByXP(ctx, topN)
	if err != nil {
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	if ls.cache != nil {
		if err := ls.cache.SetTopTen(ctx, top); err != nil {
			ls.logger.Error("writing leaderboard cache failed", slog.String("error", err.Error()))
		}
	}
	return top, nil
}
