// Package gemini implements narrator.Collaborator on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechgenai "google.golang.org/genai"

	"solo_legend/errors"
	"solo_legend/narrator"
)

const (
	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	jsonMIMEType = "application/json"
)

// Config configures a Client.
type Config struct {
	Keys        *Keys
	TextModel   string
	ImageModel  string
	SpeechModel string
	Logger      *zap.Logger
}

// Client talks to Gemini. SDK clients are built lazily for the current key and rebuilt
// when the key changes.
type Client struct {
	keys        *Keys
	textModel   string
	imageModel  string
	speechModel string
	logger      *zap.Logger

	mu        sync.Mutex
	genKey    string
	gen       *genai.Client
	speechKey string
	speech    *speechgenai.Client
}

var _ narrator.Collaborator = (*Client)(nil)

// New creates a Client. No network traffic happens until the first request.
func New(cfg Config) (*Client, error) {
	if cfg.Keys == nil {
		return nil, errors.InvalidArgument("keys cannot be nil")
	}
	c := &Client{
		keys:        cfg.Keys,
		textModel:   orDefault(cfg.TextModel, DefaultTextModel),
		imageModel:  orDefault(cfg.ImageModel, DefaultImageModel),
		speechModel: orDefault(cfg.SpeechModel, DefaultSpeechModel),
		logger:      cfg.Logger,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// Close releases the SDK clients.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != nil {
		err := c.gen.Close()
		c.gen = nil
		return err
	}
	return nil
}

func (c *Client) generator(ctx context.Context) (*genai.Client, error) {
	key := c.keys.Current()
	if key == "" {
		return nil, ErrNoAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != nil && c.genKey == key {
		return c.gen, nil
	}
	if c.gen != nil {
		_ = c.gen.Close()
		c.gen = nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.gen, c.genKey = client, key
	return client, nil
}

func (c *Client) speaker(ctx context.Context) (*speechgenai.Client, error) {
	key := c.keys.Current()
	if key == "" {
		return nil, ErrNoAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.speech != nil && c.speechKey == key {
		return c.speech, nil
	}
	client, err := speechgenai.NewClient(ctx, &speechgenai.ClientConfig{
		APIKey:  key,
		Backend: speechgenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	c.speech, c.speechKey = client, key
	return client, nil
}

// GenerateText sends one JSON-mode request, with chat history when provided.
func (c *Client) GenerateText(ctx context.Context, req narrator.TextRequest) (string, error) {
	started := time.Now()
	client, err := c.generator(ctx)
	if err != nil {
		observe(c.textModel, kindText, statusCredential, started)
		return "", classify(err, "text generation unavailable")
	}

	model := client.GenerativeModel(c.textModel)
	model.ResponseMIMEType = jsonMIMEType
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Schema != nil {
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}

	cs := model.StartChat()
	cs.History = toHistory(req.History)

	c.logger.Debug("Sending text request",
		zap.String("model", c.textModel),
		zap.Int("system_bytes", len(req.System)),
		zap.Int("prompt_bytes", len(req.Prompt)),
		zap.Int("history", len(req.History)))

	resp, err := cs.SendMessage(ctx, genai.Text(req.Prompt))
	if err != nil {
		status := statusError
		if isCredentialError(err) {
			status = statusCredential
		}
		observe(c.textModel, kindText, status, started)
		c.logger.Error("Text request failed", zap.String("model", c.textModel), zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", classify(err, "text generation failed")
	}

	text := responseText(resp)
	if text == "" {
		observe(c.textModel, kindText, statusEmpty, started)
		return "", errors.MalformedResponse("empty reply")
	}
	observe(c.textModel, kindText, statusSuccess, started)
	return text, nil
}

// GenerateImage returns the first inline image of the reply. A reply without one is not an error.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (narrator.Image, error) {
	started := time.Now()
	client, err := c.generator(ctx)
	if err != nil {
		observe(c.imageModel, kindImage, statusCredential, started)
		return narrator.Image{}, classify(err, "image generation unavailable")
	}

	resp, err := client.GenerativeModel(c.imageModel).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		observe(c.imageModel, kindImage, statusError, started)
		return narrator.Image{}, classify(err, "image generation failed")
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				observe(c.imageModel, kindImage, statusSuccess, started)
				return narrator.Image{MIMEType: blob.MIMEType, Data: blob.Data}, nil
			}
		}
	}
	observe(c.imageModel, kindImage, statusEmpty, started)
	return narrator.Image{}, nil
}

// Synthesize asks the speech model for PCM audio in the requested voice.
func (c *Client) Synthesize(ctx context.Context, req narrator.SpeechRequest) ([]byte, error) {
	started := time.Now()
	client, err := c.speaker(ctx)
	if err != nil {
		observe(c.speechModel, kindSpeech, statusCredential, started)
		return nil, classify(err, "speech synthesis unavailable")
	}

	resp, err := client.Models.GenerateContent(ctx, c.speechModel, speechgenai.Text(req.Text), &speechgenai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &speechgenai.SpeechConfig{
			VoiceConfig: &speechgenai.VoiceConfig{
				PrebuiltVoiceConfig: &speechgenai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	})
	if err != nil {
		observe(c.speechModel, kindSpeech, statusError, started)
		return nil, classify(err, "speech synthesis failed")
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				observe(c.speechModel, kindSpeech, statusSuccess, started)
				return part.InlineData.Data, nil
			}
		}
	}
	observe(c.speechModel, kindSpeech, statusEmpty, started)
	return nil, errors.GenerationFailure("reply carried no audio")
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func toHistory(msgs []narrator.Message) []*genai.Content {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &genai.Content{Role: string(m.Role), Parts: []genai.Part{genai.Text(m.Text)}})
	}
	return out
}

func toGenaiSchema(s *narrator.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Required: s.Required}
	switch s.Type {
	case narrator.TypeObject:
		out.Type = genai.TypeObject
	case narrator.TypeString:
		out.Type = genai.TypeString
	case narrator.TypeNumber:
		out.Type = genai.TypeNumber
	case narrator.TypeBoolean:
		out.Type = genai.TypeBoolean
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
