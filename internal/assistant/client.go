package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/fitquest/fitquest/internal/error_values"
)

// Client talks to the LLM gateway over plain HTTP. One generate call per
// feature, each with its own system prompt and response contract. The
// model's reasoning is never inspected, only its schema-validated output.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

func New(baseURL, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateRequest is the gateway's wire format: a system prompt plus the
// feature payload serialized as the user turn.
type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Input  any    `json:"input"`
}

type generateResponse struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error,omitempty"`
}

func (c *Client) GenerateRoutine(ctx context.Context, req RoutineRequest) (*RoutineResponse, error) {
	var resp RoutineResponse
	if err := c.generate(ctx, routineSystemPrompt, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Days) == 0 {
		return nil, errorvalues.ErrSchemaViolation
	}
	return &resp, nil
}

func (c *Client) GenerateTrivia(ctx context.Context, req TriviaRequest) (*TriviaResponse, error) {
	var resp TriviaResponse
	if err := c.generate(ctx, triviaSystemPrompt, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Questions) == 0 {
		return nil, errorvalues.ErrSchemaViolation
	}
	for _, q := range resp.Questions {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, errorvalues.ErrSchemaViolation
		}
	}
	return &resp, nil
}

func (c *Client) GradeQuiz(ctx context.Context, req QuizRequest) (*QuizResponse, error) {
	var resp QuizResponse
	if err := c.generate(ctx, quizSystemPrompt, req, &resp); err != nil {
		return nil, err
	}
	if resp.Total <= 0 || resp.Score < 0 || resp.Score > resp.Total {
		return nil, errorvalues.ErrSchemaViolation
	}
	return &resp, nil
}

func (c *Client) Debate(ctx context.Context, req DebateRequest) (*DebateResponse, error) {
	var resp DebateResponse
	if err := c.generate(ctx, debateSystemPrompt, req, &resp); err != nil {
		return nil, err
	}
	if resp.Rebuttal == "" {
		return nil, errorvalues.ErrSchemaViolation
	}
	return &resp, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.generate(ctx, chatSystemPrompt, req, &resp); err != nil {
		return nil, err
	}
	if resp.Reply == "" {
		return nil, errorvalues.ErrSchemaViolation
	}
	return &resp, nil
}

func (c *Client) generate(ctx context.Context, system string, input, output any) error {
	body, err := sonic.Marshal(generateRequest{
		Model:  c.model,
		System: system,
		Input:  input,
	})
	if err != nil {
		return errors.New("marshalling generate request error: " + err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return errors.New("building generate request error: " + err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		return errorvalues.ErrAssistantUnavailable
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return errorvalues.ErrAssistantUnavailable
	}
	if httpResp.StatusCode != http.StatusOK {
		return errorvalues.ErrAssistantUnavailable
	}
	var resp generateResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return errorvalues.ErrSchemaViolation
	}
	if resp.Error != "" {
		return errors.New("assistant rejected request: " + resp.Error)
	}
	if err := sonic.Unmarshal(resp.Output, output); err != nil {
		return errorvalues.ErrSchemaViolation
	}
	return nil
}
