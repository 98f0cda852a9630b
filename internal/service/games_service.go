package service

import (
	"context"
	"errors"
	"log"

	"github.com/fitquest/fitquest/internal/assistant"
	"github.com/go-playground/validator/v10"
)

// GamesClient is the mini-game and chat slice of the assistant client.
type GamesClient interface {
	GenerateTrivia(ctx context.Context, req assistant.TriviaRequest) (*assistant.TriviaResponse, error)
	GradeQuiz(ctx context.Context, req assistant.QuizRequest) (*assistant.QuizResponse, error)
	Debate(ctx context.Context, req assistant.DebateRequest) (*assistant.DebateResponse, error)
	Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.ChatResponse, error)
}

// GamesService is a validation shim over the assistant: structured input
// in, schema-checked output back, nothing of the model's output reinterpreted.
type GamesService struct {
	client GamesClient
}

func NewGamesService(client GamesClient) *GamesService {
	if client == nil {
		log.Fatal("provided nil assistant client to games service")
	}
	return &GamesService{client: client}
}

func (gs *GamesService) Trivia(ctx context.Context, req *assistant.TriviaRequest) (*assistant.TriviaResponse, error) {
	if req.Questions == 0 {
		req.Questions = 5
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return gs.client.GenerateTrivia(ctx, *req)
}

func (gs *GamesService) Quiz(ctx context.Context, req *assistant.QuizRequest) (*assistant.QuizResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return gs.client.GradeQuiz(ctx, *req)
}

func (gs *GamesService) Debate(ctx context.Context, req *assistant.DebateRequest) (*assistant.DebateResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return gs.client.Debate(ctx, *req)
}

func (gs *GamesService) Chat(ctx context.Context, req *assistant.ChatRequest) (*assistant.ChatResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return gs.client.Chat(ctx, *req)
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
