package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"tutorgo/internal/config"
)

// Result is one generation outcome. Text is always usable as an assistant
// reply; a failed backend call degrades Text to an apology and records the
// cause in Err so callers can log the degradation.
type Result struct {
	Text string
	Err  error
}

// Degraded reports whether Text is an apology rather than generated content.
func (r Result) Degraded() bool { return r.Err != nil }

// Apology is the user-facing reply substituted for a failed generation call.
func Apology(err error) string {
	return fmt.Sprintf("I apologize, but I encountered an error: %v. Please try again.", err)
}

// Client wraps a hosted chat model behind a single prompt-in, completion-out
// call.
type Client struct {
	chatModel model.ToolCallingChatModel
}

var apiKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"gemini": "GEMINI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
}

// NewClient builds the chat model selected by cfg.Tutor.Provider. All
// settings come from the config value; nothing is read from ambient process
// state after construction.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	provider := cfg.Tutor.Provider
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	modelName := cfg.Tutor.Model
	if modelName == "" {
		modelName = provCfg.Model
	}
	apiKey := provCfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv[provider])
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   modelName,
			APIKey:  apiKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Client{chatModel: chatModel}, nil
}

// Generate produces one completion for a fully rendered prompt. Backend
// failures never propagate as errors: the conversation must always get a
// reply turn, so Text degrades to an apology instead.
func (c *Client) Generate(ctx context.Context, prompt string) Result {
	resp, err := c.chatModel.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		return Result{Text: Apology(err), Err: err}
	}
	return Result{Text: resp.Content}
}
