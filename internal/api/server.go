package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fitquest/fitquest/internal/service"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	progressService    service.ProgressServiceI
	routineService     service.RoutineServiceI
	gamesService       service.GamesServiceI
	leaderboardService service.LeaderboardServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	ProgressService    service.ProgressServiceI
	RoutineService     service.RoutineServiceI
	GamesService       service.GamesServiceI
	LeaderboardService service.LeaderboardServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		progressService:    servicesOptions.ProgressService,
		routineService:     servicesOptions.RoutineService,
		gamesService:       servicesOptions.GamesService,
		leaderboardService: servicesOptions.LeaderboardService,
		jwtService:         servicesOptions.JwtService,
	}
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Delete("/account", s.DeleteAccount)
			r.Put("/profile", s.SaveProfile)
			r.Get("/profile", s.GetProfile)

			r.Post("/workouts", s.LogWorkout)
			r.Get("/workouts", s.GetWorkouts)
			r.Get("/state", s.GetState)
			r.Get("/missions", s.GetMissions)
			r.Post("/xp/grant", s.GrantXP)
			r.Post("/diamonds/earn", s.EarnDiamonds)
			r.Post("/diamonds/spend", s.SpendDiamonds)

			r.Post("/routine/generate", s.GenerateRoutine)
			r.Get("/routine", s.GetRoutine)
			r.Post("/routine/progress", s.ProgressRoutine)

			r.Post("/games/trivia", s.Trivia)
			r.Post("/games/quiz", s.Quiz)
			r.Post("/games/debate", s.Debate)
			r.Post("/assistant/chat", s.Chat)

			r.Get("/leaderboard", s.GetLeaderboard)
		})
	})
}

func (s *Server) Run(address string) error {
	s.registerRoutes()
	slog.Info("starting server", slog.String("address", address))
	server := &http.Server{
		Addr:              address,
		Handler:           s.mx,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
