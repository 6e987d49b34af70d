// Package llm streams chat completions from an OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is reported when generation is requested without credentials.
var ErrMissingAPIKey = errors.New("API key not set")

// Options configures a Client.
type Options struct {
	APIKey     string
	APIBase    string
	Model      string
	HTTPClient *http.Client
}

// Client is a streaming text-completion client.
type Client struct {
	opts Options
}

func NewClient(opts Options) *Client {
	return &Client{opts: opts}
}

func (c *Client) newOpenAIClient() *openai.Client {
	clientConfig := openai.DefaultConfig(c.opts.APIKey)
	if c.opts.APIBase != "" {
		clientConfig.BaseURL = c.opts.APIBase
	}
	if c.opts.HTTPClient != nil {
		clientConfig.HTTPClient = c.opts.HTTPClient
	}
	return openai.NewClientWithConfig(clientConfig)
}

// Stream sends system and user to the model and yields content fragments as
// they arrive. The sequence is single-use: ranging over it opens one request.
// A failure is yielded once as the last element.
func (c *Client) Stream(ctx context.Context, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if c.opts.APIKey == "" {
			yield("", ErrMissingAPIKey)
			return
		}

		stream, err := c.newOpenAIClient().CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model: c.opts.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			Stream: true,
		})
		if err != nil {
			yield("", fmt.Errorf("failed to call LLM: %w", err))
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("failed to read LLM stream: %w", err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !yield(delta, nil) {
				return
			}
		}
	}
}
