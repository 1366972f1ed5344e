package narrator

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"solo_legend/audio"
	"solo_legend/prompts"
	"solo_legend/story"
)

const (
	// NarratorVoice reads everything the game master says.
	NarratorVoice = "Kore"
	// NarratorSpeaker is the speaker name used when the narrative has no speaker tag.
	NarratorSpeaker = "DM"
)

// characterVoices are assigned to named speakers by name length.
var characterVoices = []string{"Puck", "Charon", "Zephyr", "Fenrir"}

var speakerTag = regexp.MustCompile(`^\[(.*?)\]:`)

// GenerateImage returns a data URL for the prompt, or "" when no image could be made.
// Failures are logged and swallowed; they never interrupt a turn.
func (n *Narrator) GenerateImage(ctx context.Context, prompt string) string {
	img, err := n.ai.GenerateImage(ctx, prompts.ImageStyle+prompt)
	if err != nil {
		n.logger.Warn("Image generation failed", zap.Error(err))
		return ""
	}
	if len(img.Data) == 0 {
		n.logger.Debug("Collaborator returned no image part")
		return ""
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
}

// EnemyImagePrompt describes an enemy for the illustrator.
func EnemyImagePrompt(e story.Enemy) string {
	return fmt.Sprintf(prompts.EnemyImagePrompt, e.Name, e.Description)
}

// PortraitPrompt describes a hero for the illustrator.
func PortraitPrompt(d story.CharacterDraft) string {
	blessing := d.BlessingName
	if blessing == "" {
		blessing = "none"
	}
	return fmt.Sprintf(prompts.PortraitPrompt, d.Gender, d.Race, d.Class, d.Appearance, blessing)
}

// SplitSpeaker separates a leading "[Name]:" tag from the narrative.
func SplitSpeaker(narrative string) (speaker, text string) {
	if m := speakerTag.FindStringSubmatch(narrative); m != nil {
		return m[1], strings.TrimSpace(narrative[len(m[0]):])
	}
	return NarratorSpeaker, strings.TrimSpace(narrative)
}

// VoiceFor picks the prebuilt voice for a speaker.
func VoiceFor(speaker string) string {
	if speaker == NarratorSpeaker {
		return NarratorVoice
	}
	return characterVoices[len(speaker)%len(characterVoices)]
}

// Speak synthesizes the narrative. It returns nil on any failure.
func (n *Narrator) Speak(ctx context.Context, narrative string) *audio.Clip {
	speaker, text := SplitSpeaker(narrative)
	if text == "" {
		return nil
	}
	pcm, err := n.ai.Synthesize(ctx, SpeechRequest{
		Text:  fmt.Sprintf(prompts.SpeechPrompt, speaker, text),
		Voice: VoiceFor(speaker),
	})
	if err != nil {
		n.logger.Warn("Speech synthesis failed", zap.String("speaker", speaker), zap.Error(err))
		return nil
	}
	if len(pcm) == 0 {
		return nil
	}
	return &audio.Clip{PCM: pcm}
}
