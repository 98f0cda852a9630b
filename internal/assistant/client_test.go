package assistant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/fitquest/fitquest/internal/assistant"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateway(t *testing.T, handler http.HandlerFunc) *assistant.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return assistant.New(srv.URL, "test-key", "test-model")
}

func TestGenerateRoutine(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/generate", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			var req map[string]any
			require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req["model"])
			w.Write([]byte(`{"output":{"days":[{"day":"Monday","focus":"push","exercises":[{"name":"Bench press","sets":4,"reps":"6-8"}]}],"notes":"ok"}}`))
		})
		resp, err := client.GenerateRoutine(context.Background(), assistant.RoutineRequest{
			Sport: "powerlifting", Goal: "strength", Experience: "intermediate", DaysPerWeek: 1,
		})
		require.NoError(t, err)
		require.Len(t, resp.Days, 1)
		assert.Equal(t, "Bench press", resp.Days[0].Exercises[0].Name)
	})
	t.Run("empty plan is a schema violation", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"days":[]}}`))
		})
		_, err := client.GenerateRoutine(context.Background(), assistant.RoutineRequest{})
		assert.ErrorIs(t, err, errorvalues.ErrSchemaViolation)
	})
	t.Run("gateway down", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.GenerateRoutine(context.Background(), assistant.RoutineRequest{})
		assert.ErrorIs(t, err, errorvalues.ErrAssistantUnavailable)
	})
}

func TestGenerateTrivia(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"questions":[{"question":"Largest muscle?","options":["Biceps","Gluteus maximus","Soleus","Lats"],"answer":1}]}}`))
		})
		resp, err := client.GenerateTrivia(context.Background(), assistant.TriviaRequest{Topic: "anatomy", Questions: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Questions[0].Answer)
	})
	t.Run("answer index out of range", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"questions":[{"question":"q","options":["a","b"],"answer":5}]}}`))
		})
		_, err := client.GenerateTrivia(context.Background(), assistant.TriviaRequest{Topic: "anatomy", Questions: 1})
		assert.ErrorIs(t, err, errorvalues.ErrSchemaViolation)
	})
}

func TestGradeQuiz(t *testing.T) {
	t.Run("score above total is rejected", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":{"score":7,"total":5,"analysis":"?"}}`))
		})
		_, err := client.GradeQuiz(context.Background(), assistant.QuizRequest{Answers: map[string]string{"q": "a"}})
		assert.ErrorIs(t, err, errorvalues.ErrSchemaViolation)
	})
}

func TestChat(t *testing.T) {
	t.Run("model error surfaces", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"output":null,"error":"content filtered"}`))
		})
		_, err := client.Chat(context.Background(), assistant.ChatRequest{Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}}})
		assert.Error(t, err)
	})
	t.Run("malformed output body", func(t *testing.T) {
		client := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		})
		_, err := client.Chat(context.Background(), assistant.ChatRequest{Messages: []assistant.ChatMessage{{Role: "user", Content: "hi"}}})
		assert.ErrorIs(t, err, errorvalues.ErrSchemaViolation)
	})
}
