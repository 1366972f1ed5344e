package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"solo_legend/errors"
	"solo_legend/narrator"
)

func TestIsCredentialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no key", ErrNoAPIKey, true},
		{"wrapped no key", fmt.Errorf("start: %w", ErrNoAPIKey), true},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, true},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "slow down"}, false},
		{"invalid key message", fmt.Errorf("googleapi: API key not valid. Please pass a valid API key."), true},
		{"missing entity", fmt.Errorf("Requested entity was not found."), true},
		{"other", fmt.Errorf("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCredentialError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.True(t, errors.IsCredential(classify(ErrNoAPIKey, "text")))

	err := classify(fmt.Errorf("boom"), "text generation failed")
	assert.False(t, errors.IsCredential(err))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(err))
}

func TestToGenaiSchema(t *testing.T) {
	in := &narrator.Schema{
		Type: narrator.TypeObject,
		Properties: map[string]*narrator.Schema{
			"name":       {Type: narrator.TypeString},
			"cost":       {Type: narrator.TypeNumber},
			"isApproved": {Type: narrator.TypeBoolean},
		},
		Required: []string{"isApproved"},
	}

	out := toGenaiSchema(in)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"isApproved"}, out.Required)
	require.Len(t, out.Properties, 3)
	assert.Equal(t, genai.TypeString, out.Properties["name"].Type)
	assert.Equal(t, genai.TypeNumber, out.Properties["cost"].Type)
	assert.Equal(t, genai.TypeBoolean, out.Properties["isApproved"].Type)

	assert.Nil(t, toGenaiSchema(nil))
}

func TestToHistory(t *testing.T) {
	assert.Nil(t, toHistory(nil))

	h := toHistory([]narrator.Message{
		{Role: narrator.RoleUser, Text: "user: hi"},
		{Role: narrator.RoleModel, Text: "dm: hello"},
	})
	require.Len(t, h, 2)
	assert.Equal(t, "user", h[0].Role)
	assert.Equal(t, "model", h[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("dm: hello")}, h[1].Parts)
}

func TestResponseText(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.Text(`{"narrative":`),
			genai.Blob{MIMEType: "image/png", Data: []byte{1}},
			genai.Text(`"hi"}`),
		}},
	}}}
	assert.Equal(t, `{"narrative":"hi"}`, responseText(resp))
}

func TestClientWithoutKey(t *testing.T) {
	c, err := New(Config{Keys: NewKeys("", "", nil)})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, err = c.GenerateText(ctx, narrator.TextRequest{Prompt: "hi"})
	assert.True(t, errors.IsCredential(err))

	_, err = c.GenerateImage(ctx, "a troll")
	assert.True(t, errors.IsCredential(err))

	_, err = c.Synthesize(ctx, narrator.SpeechRequest{Text: "hi", Voice: "Kore"})
	assert.True(t, errors.IsCredential(err))
}

func TestNewDefaults(t *testing.T) {
	_, err := New(Config{})
	assert.True(t, errors.IsInvalidArgument(err))

	c, err := New(Config{Keys: NewKeys("k", "", nil), TextModel: " "})
	require.NoError(t, err)
	assert.Equal(t, DefaultTextModel, c.textModel)
	assert.Equal(t, DefaultImageModel, c.imageModel)
	assert.Equal(t, DefaultSpeechModel, c.speechModel)
}

func TestKeysSelectKey(t *testing.T) {
	ctx := context.Background()

	t.Run("reloads from env file", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(APIKeyEnv+"=fresh-key\n"), 0o600))

		k := NewKeys("stale-key", path, nil)
		require.NoError(t, k.SelectKey(ctx))
		assert.Equal(t, "fresh-key", k.Current())
	})

	t.Run("reads process environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, " env-key ")
		k := NewKeys("", "", nil)
		require.NoError(t, k.SelectKey(ctx))
		assert.Equal(t, "env-key", k.Current())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		k := NewKeys("old", filepath.Join(t.TempDir(), "missing.env"), nil)
		err := k.SelectKey(ctx)
		assert.True(t, errors.IsFailedPrecondition(err))
		assert.Equal(t, "old", k.Current())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, NewKeys("", "", nil).SelectKey(cctx), context.Canceled)
	})
}
