package assistant

import "github.com/fitquest/fitquest/pkg/entity"

// Request/response contracts for the LLM gateway. The model is an opaque
// collaborator: structured input goes in, output must decode into one of
// these shapes or the call fails with ErrSchemaViolation.

// RoutineRequest is the structured onboarding input for plan generation.
type RoutineRequest struct {
	Sport       string   `json:"sport" validate:"required"`
	Goal        string   `json:"goal" validate:"required"`
	Experience  string   `json:"experience" validate:"required"`
	DaysPerWeek int      `json:"days_per_week" validate:"required,min=1,max=7"`
	Equipment   []string `json:"equipment,omitempty"`
	// History is included for adaptive progression: the logged workouts of
	// the finished cycle.
	History []entity.CompletedWorkout `json:"history,omitempty"`
	Cycle   int                       `json:"cycle,omitempty"`
}

// RoutineResponse is what the model must return for a plan request.
type RoutineResponse struct {
	Days  []entity.RoutineDay `json:"days"`
	Notes string              `json:"notes,omitempty"`
}

type TriviaRequest struct {
	Topic     string `json:"topic" validate:"required"`
	Questions int    `json:"questions" validate:"min=1,max=20"`
}

type TriviaQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
	Fact     string   `json:"fact,omitempty"`
}

type TriviaResponse struct {
	Questions []TriviaQuestion `json:"questions"`
}

type QuizRequest struct {
	// Answers maps question text to the user's picked option.
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

type QuizResponse struct {
	Score    int    `json:"score"`
	Total    int    `json:"total"`
	Analysis string `json:"analysis"`
}

type DebateRequest struct {
	Topic    string `json:"topic" validate:"required"`
	Stance   string `json:"stance" validate:"required,oneof=for against"`
	Argument string `json:"argument" validate:"required"`
}

type DebateResponse struct {
	Rebuttal string `json:"rebuttal"`
	Verdict  string `json:"verdict"`
	Points   int    `json:"points"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
