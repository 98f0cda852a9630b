package api_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fitquest/fitquest/internal/api"
	"github.com/fitquest/fitquest/internal/assistant"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/internal/service"
	"github.com/fitquest/fitquest/pkg/entity"
	jwtservice "github.com/fitquest/fitquest/pkg/jwt_service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWT() api.JWTServiceI {
	return jwtservice.New("secret")
}

// authorized stamps the request context the way AuthMiddleware does.
func authorized(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "User-ID", uid)) //nolint:staticcheck
}

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	username        = "test_name"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
)

type UserServiceMock struct {
	success bool
}

func (usmock *UserServiceMock) ChangeState(success bool) {
	usmock.success = success
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) SaveProfile(ctx context.Context, id uuid.UUID, req *service.ProfileRequest) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func (usmock *UserServiceMock) GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if usmock.success {
		return &entity.Profile{UserID: uid, DisplayName: username}, nil
	}
	return nil, errorvalues.ErrProfileNotFound
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

type ProgressServiceMock struct {
	success bool
}

func (psmock *ProgressServiceMock) ChangeState(success bool) {
	psmock.success = success
}

func (psmock *ProgressServiceMock) LogWorkout(ctx context.Context, uid uuid.UUID, req *service.LogWorkoutRequest) (*gamestate.WorkoutResult, error) {
	if psmock.success {
		return &gamestate.WorkoutResult{NewStreak: 1, XP: 0}, nil
	}
	return nil, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) Workouts(ctx context.Context, uid uuid.UUID, pagination service.PaginationOpts) ([]*entity.CompletedWorkout, error) {
	if psmock.success {
		return []*entity.CompletedWorkout{{ID: 1, UserID: uid, Label: "Push day"}}, nil
	}
	return nil, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) State(ctx context.Context, uid uuid.UUID) (*gamestate.Snapshot, error) {
	if psmock.success {
		snap := gamestate.NewSnapshot(uid, time.Now())
		return &snap, nil
	}
	return nil, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) Missions(ctx context.Context, uid uuid.UUID, now time.Time) (*gamestate.WeeklyMissions, error) {
	if psmock.success {
		wm := gamestate.NewWeeklyMissions(now)
		return &wm, nil
	}
	return nil, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) GrantXP(ctx context.Context, uid uuid.UUID, amount int, reason string) (*gamestate.XPGrant, error) {
	if psmock.success {
		return &gamestate.XPGrant{Base: amount, Total: amount}, nil
	}
	return nil, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) EarnDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error) {
	if psmock.success {
		return amount, nil
	}
	return 0, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) SpendDiamonds(ctx context.Context, uid uuid.UUID, amount int) (int, error) {
	if psmock.success {
		return 0, nil
	}
	return 0, errors.New("mocked error")
}

func (psmock *ProgressServiceMock) Evict(uid uuid.UUID) {}

type GamesServiceMock struct {
	success bool
}

func (gsmock *GamesServiceMock) ChangeState(success bool) {
	gsmock.success = success
}

func (gsmock *GamesServiceMock) Trivia(ctx context.Context, req *assistant.TriviaRequest) (*assistant.TriviaResponse, error) {
	if gsmock.success {
		return &assistant.TriviaResponse{Questions: []assistant.TriviaQuestion{{Question: "?", Options: []string{"a", "b"}, Answer: 0}}}, nil
	}
	return nil, errorvalues.ErrAssistantUnavailable
}

func (gsmock *GamesServiceMock) Quiz(ctx context.Context, req *assistant.QuizRequest) (*assistant.QuizResponse, error) {
	if gsmock.success {
		return &assistant.QuizResponse{Score: 1, Total: 1}, nil
	}
	return nil, errorvalues.ErrAssistantUnavailable
}

func (gsmock *GamesServiceMock) Debate(ctx context.Context, req *assistant.DebateRequest) (*assistant.DebateResponse, error) {
	if gsmock.success {
		return &assistant.DebateResponse{Rebuttal: "no", Verdict: "draw"}, nil
	}
	return nil, errorvalues.ErrAssistantUnavailable
}

func (gsmock *GamesServiceMock) Chat(ctx context.Context, req *assistant.ChatRequest) (*assistant.ChatResponse, error) {
	if gsmock.success {
		return &assistant.ChatResponse{Reply: "rest day"}, nil
	}
	return nil, errorvalues.ErrAssistantUnavailable
}

type LeaderboardServiceMock struct {
	success bool
}

func (lsmock *LeaderboardServiceMock) Get(ctx context.Context, uid uuid.UUID) (*entity.Leaderboard, error) {
	if lsmock.success {
		return &entity.Leaderboard{TopTen: []entity.LeaderboardEntry{}}, nil
	}
	return nil, errors.New("mocked error")
}

func (lsmock *LeaderboardServiceMock) Invalidate(ctx context.Context) {}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  newTestJWT(),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestLogWorkout(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LogWorkoutRequest{
		Label:    "Push day",
		Duration: 45,
		Volume:   3500,
	})
	if err != nil {
		t.Fatal(err)
	}
	progressMock := ProgressServiceMock{}
	serv := api.New(&api.ServicesList{
		ProgressService:    &progressMock,
		LeaderboardService: &LeaderboardServiceMock{success: true},
	})
	t.Run("logged", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/workouts", bytes.NewReader(body)))
		progressMock.ChangeState(true)
		serv.LogWorkout(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", bytes.NewReader(body))
		progressMock.ChangeState(true)
		serv.LogWorkout(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/workouts", bytes.NewReader(body)))
		progressMock.ChangeState(false)
		serv.LogWorkout(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGrantXP(t *testing.T) {
	progressMock := ProgressServiceMock{success: true}
	serv := api.New(&api.ServicesList{ProgressService: &progressMock})

	t.Run("granted", func(t *testing.T) {
		body, _ := sonic.ConfigDefault.Marshal(api.GrantXPRequest{Amount: 50, Reason: "ad reward"})
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/xp/grant", bytes.NewReader(body)))
		serv.GrantXP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("non-positive amount rejected", func(t *testing.T) {
		body, _ := sonic.ConfigDefault.Marshal(api.GrantXPRequest{Amount: -5})
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/xp/grant", bytes.NewReader(body)))
		serv.GrantXP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestTrivia(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(assistant.TriviaRequest{Topic: "recovery"})
	if err != nil {
		t.Fatal(err)
	}
	gamesMock := GamesServiceMock{}
	serv := api.New(&api.ServicesList{GamesService: &gamesMock})

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/games/trivia", bytes.NewReader(body))
		gamesMock.ChangeState(true)
		serv.Trivia(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("assistant down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/games/trivia", bytes.NewReader(body))
		gamesMock.ChangeState(false)
		serv.Trivia(rr, req)
		assert.Equal(t, http.StatusBadGateway, rr.Result().StatusCode)
	})
}

func TestGetLeaderboard(t *testing.T) {
	lbMock := LeaderboardServiceMock{success: true}
	serv := api.New(&api.ServicesList{LeaderboardService: &lbMock})

	t.Run("provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
		serv.GetLeaderboard(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
		serv.GetLeaderboard(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": "` + uid.String() + `"}`))
}

func TestAuthMiddleware(t *testing.T) {
	userMock := UserServiceMock{}
	jwtService := newTestJWT()
	serv := api.New(&api.ServicesList{
		UserService: &userMock,
		JwtService:  jwtService,
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(testHandler))

	token, err := jwtService.GenerateToken(&entity.User{ID: uid, Name: username})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		userMock.ChangeState(true)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		userMock.ChangeState(true)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		userMock.ChangeState(true)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("user no longer exists", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		userMock.ChangeState(false)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestLoggerExtensionMiddleware(t *testing.T) {
	serv := api.New(&api.ServicesList{JwtService: newTestJWT()})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := serv.LoggerExtensionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.GetLoggerFromCtx(r.Context()).Info("handled")
	}))

	t.Run("uid attaches to the request logger", func(t *testing.T) {
		buf.Reset()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
		req = req.WithContext(context.WithValue(req.Context(), "Logger", logger)) //nolint:staticcheck
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Contains(t, buf.String(), "uid="+uid.String())
	})
	t.Run("anonymous request logs without uid", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req = req.WithContext(context.WithValue(req.Context(), "Logger", logger)) //nolint:staticcheck
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotContains(t, buf.String(), "uid=")
	})
}
