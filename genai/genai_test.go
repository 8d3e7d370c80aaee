package genai

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/props"
)

type fakeAPI struct {
	secret     string
	chatCalls  int
	imageCalls int
	lastChat   openai.ChatCompletionRequest
	lastImage  openai.ImageRequest
	chatResp   openai.ChatCompletionResponse
	imageURL   string
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.chatCalls++
	f.lastChat = req
	return f.chatResp, nil
}

func (f *fakeAPI) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	f.imageCalls++
	f.lastImage = req
	return openai.ImageResponse{Data: []openai.ImageResponseDataInner{{URL: f.imageURL}}}, nil
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	store, err := props.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "doc", props.KeySecretKey, "sk-test"))

	fake := &fakeAPI{
		chatResp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  a dry joke  "},
			}},
		},
		imageURL: "https://images.example.com/generated.png",
	}
	c := NewClient(store, "doc")
	c.newAPI = func(secret string) api {
		fake.secret = secret
		return fake
	}
	return c, fake
}

func TestClient_GenerateText(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	got, err := c.GenerateText(ctx, TextRequest{
		Temperature:  2,
		SystemPrompt: "You are a dry comedian.",
		UserPrompt:   "Tell me a joke about render farms.",
	})
	require.NoError(t, err)
	assert.Equal(t, "a dry joke", got, "assistant response is trimmed")
	assert.Equal(t, "sk-test", fake.secret)
	assert.Equal(t, openai.GPT4o, fake.lastChat.Model)
	require.Len(t, fake.lastChat.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fake.lastChat.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.lastChat.Messages[1].Role)
	assert.EqualValues(t, 2, fake.lastChat.Temperature)
}

func TestClient_GenerateText_NoAssistantChoice(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)
	fake.chatResp = openai.ChatCompletionResponse{}

	got, err := c.GenerateText(ctx, TextRequest{UserPrompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestClient_GenerateText_Cache(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	req := TextRequest{Temperature: 1, UserPrompt: "same prompt", UseCache: true}
	first, err := c.GenerateText(ctx, req)
	require.NoError(t, err)
	second, err := c.GenerateText(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.chatCalls, "second call served from cache")

	// Uncached requests always hit the API.
	req.UseCache = false
	_, err = c.GenerateText(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.chatCalls)
}

func TestClient_GenerateImage(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	got, err := c.GenerateImage(ctx, ImageRequest{Size: "1024x1024", Prompt: "an alien spaceship"})
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/generated.png", got)
	assert.Equal(t, 1, fake.lastImage.N)
	assert.Equal(t, "1024x1024", fake.lastImage.Size)
}

func TestClient_GenerateImage_Cache(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	req := ImageRequest{Size: "512x512", Prompt: "a matte painting", UseCache: true}
	_, err := c.GenerateImage(ctx, req)
	require.NoError(t, err)
	_, err = c.GenerateImage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.imageCalls)

	// A different size is a different cache entry.
	req.Size = "1024x1024"
	_, err = c.GenerateImage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.imageCalls)
}

func TestClient_MissingSecret(t *testing.T) {
	ctx := context.Background()
	store, err := props.Open(":memory:")
	require.NoError(t, err)
	c := NewClient(store, "doc")

	_, err = c.GenerateText(ctx, TextRequest{UserPrompt: "anything"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
