package genai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"go.openbid.build/keycache"
	"go.openbid.build/props"
)

// api is the slice of the OpenAI client the package exercises, injectable
// for tests.
type api interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// Client generates text and images for one workbook. The API credential is
// read from the document properties on every call, so rotating the stored
// key takes effect immediately.
type Client struct {
	props  props.Store
	docID  string
	cache  *keycache.Cache
	newAPI func(secret string) api
}

// NewClient returns a generation client for the document.
func NewClient(store props.Store, docID string) *Client {
	return &Client{
		props: store,
		docID: docID,
		cache: keycache.NewCache(),
		newAPI: func(secret string) api {
			return openai.NewClient(secret)
		},
	}
}

// TextRequest is one GPT invocation.
type TextRequest struct {
	// Temperature ranges 0-2, with 2 being the most creative.
	Temperature  float32
	SystemPrompt string
	UserPrompt   string
	UseCache     bool
}

// GenerateText returns the first assistant response, trimmed, or "" when the
// model produced none.
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	secret, err := c.props.Get(ctx, c.docID, props.KeySecretKey)
	if err != nil {
		return "", err
	}
	produce := func() (string, error) {
		resp, err := c.newAPI(secret).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
			},
			Temperature: req.Temperature,
		})
		if err != nil {
			return "", err
		}
		for _, choice := range resp.Choices {
			if choice.Message.Role == openai.ChatMessageRoleAssistant {
				return strings.TrimSpace(choice.Message.Content), nil
			}
		}
		return "", nil
	}
	if !req.UseCache {
		return produce()
	}
	key := keycache.Hash(fmt.Sprintf("%s-%v-%s", secret, req.Temperature, req.UserPrompt))
	return c.cache.Do(key, keycache.DefaultTTL, produce)
}

// ImageRequest is one image-generation invocation.
type ImageRequest struct {
	// Size is the image dimension string, e.g. "1024x1024".
	Size     string
	Prompt   string
	UseCache bool
}

// GenerateImage returns the URL of the generated image.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	secret, err := c.props.Get(ctx, c.docID, props.KeySecretKey)
	if err != nil {
		return "", err
	}
	produce := func() (string, error) {
		resp, err := c.newAPI(secret).CreateImage(ctx, openai.ImageRequest{
			Prompt: req.Prompt,
			N:      1,
			Size:   req.Size,
		})
		if err != nil {
			return "", err
		}
		return resp.Data[0].URL, nil
	}
	if !req.UseCache {
		return produce()
	}
	key := fmt.Sprintf("%s-%s-%s", secret, req.Size, req.Prompt)
	return c.cache.Do(key, keycache.DefaultTTL, produce)
}
