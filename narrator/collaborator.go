// Package narrator turns player actions into parsed turn results by talking to the
// generative collaborator.
package narrator

import "context"

// Role marks who authored a history message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of conversational memory sent along with a prompt.
type Message struct {
	Role Role
	Text string
}

// SchemaType enumerates the JSON types a response schema can constrain.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral response schema.
type Schema struct {
	Type       SchemaType
	Properties map[string]*Schema
	Required   []string
}

// TextRequest asks for one JSON reply.
type TextRequest struct {
	System  string
	Prompt  string
	History []Message
	// Schema constrains the reply when set; otherwise raw JSON is requested.
	Schema *Schema
}

// Image is inline image data. Empty Data means the collaborator returned no image.
type Image struct {
	MIMEType string
	Data     []byte
}

// SpeechRequest asks for narration audio.
type SpeechRequest struct {
	Text  string
	Voice string
}

// Collaborator is the external generative-AI service.
type Collaborator interface {
	// GenerateText returns the raw reply text, expected to hold one JSON object.
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	// GenerateImage returns the first inline image part, or an empty Image.
	GenerateImage(ctx context.Context, prompt string) (Image, error)
	// Synthesize returns little-endian 16-bit mono PCM at 24kHz.
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// KeySelector is the host capability that lets the player pick a new API key.
type KeySelector interface {
	SelectKey(ctx context.Context) error
}
