package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"veriscan/internal/scan"
)

// Client implements ports.TextGenerator on the OpenAI chat-completion API.
type Client struct {
	api   *openai.Client
	model string
}

func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("text generator: api key not configured")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{api: openai.NewClient(apiKey), model: model}, nil
}

func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", &scan.GeneratorError{Class: Classify(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &scan.GeneratorError{
			Class: scan.FailureUnclassified,
			Err:   errors.New("no choices returned"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}

// Classify buckets API failures so an operator can tell a revoked key from a
// missing model or a rate limit. Retry policy stays with the calling layer.
func Classify(err error) scan.FailureClass {
	var status int
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return scan.FailureUnclassified
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return scan.FailureAccessDenied
	case http.StatusNotFound:
		return scan.FailureModelNotFound
	case http.StatusTooManyRequests:
		return scan.FailureRateLimited
	case http.StatusBadRequest:
		return scan.FailureMalformedRequest
	default:
		return scan.FailureUnclassified
	}
}
