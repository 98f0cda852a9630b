// @title FitQuest API
// @description API for the gamified fitness app "FitQuest"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"time"

	"github.com/fitquest/fitquest/internal/api"
	"github.com/fitquest/fitquest/internal/assistant"
	"github.com/fitquest/fitquest/internal/cache"
	"github.com/fitquest/fitquest/internal/jobs"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/internal/service"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/fitquest/fitquest/pkg/config"
	jwtservice "github.com/fitquest/fitquest/pkg/jwt_service"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()

	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.PostgresAddress,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
	}
	pool, err := pgxpool.New(context.Background(), dbCfg.ConnString())
	if err != nil {
		log.Fatal("creating connection pool error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})

	usersRepo := repository.NewUsersRepoWithConn(pool)
	profilesRepo := repository.NewProfilesRepoWithConn(pool)
	progressRepo := repository.NewProgressRepoWithConn(pool)
	workoutsRepo := repository.NewWorkoutsRepoWithConn(pool)
	routinesRepo := repository.NewRoutinesRepoWithConn(pool)

	assistantClient := assistant.New(
		cfg.AssistantURL,
		cfg.AssistantAPIKey,
		cfg.AssistantModel,
		assistant.WithTimeout(time.Duration(cfg.AssistantTimeout)*time.Second),
	)
	leaderboardCache := cache.New(
		cfg.RedisAddress,
		cfg.RedisPassword,
		time.Duration(cfg.LeaderboardCacheTTLSeconds)*time.Second,
	)

	scheduler := jobs.New(progressRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatal("starting job scheduler error: " + err.Error())
	}

	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo, profilesRepo),
		ProgressService:    service.NewProgressService(progressRepo, workoutsRepo, cfg.StreakBonusPerDay),
		RoutineService:     service.NewRoutineService(routinesRepo, workoutsRepo, profilesRepo, assistantClient),
		GamesService:       service.NewGamesService(assistantClient),
		LeaderboardService: service.NewLeaderboardService(profilesRepo, leaderboardCache),
		JwtService:         jwtservice.New(cfg.JWTSecret),
	})
	if err := serv.Run(cfg.APIAddress); err != nil {
		log.Println("Server error: " + err.Error())
	}
}
