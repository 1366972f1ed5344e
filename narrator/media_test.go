package narrator_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"solo_legend/errors"
	"solo_legend/mocks"
	"solo_legend/narrator"
	"solo_legend/story"
)

func newNarrator(t *testing.T, ai narrator.Collaborator) *narrator.Narrator {
	t.Helper()
	n, err := narrator.New(&narrator.Config{Collaborator: ai})
	require.NoError(t, err)
	return n
}

func TestGenerateImage(t *testing.T) {
	ctx := context.Background()

	t.Run("data url", func(t *testing.T) {
		ai := mocks.NewMockCollaborator(t)
		ai.On("GenerateImage", ctx, "Digital RPG art style: a troll").
			Return(narrator.Image{MIMEType: "image/png", Data: []byte("png")}, nil).Once()

		assert.Equal(t, "data:image/png;base64,cG5n", newNarrator(t, ai).GenerateImage(ctx, "a troll"))
	})

	t.Run("no image part", func(t *testing.T) {
		ai := mocks.NewMockCollaborator(t)
		ai.On("GenerateImage", ctx, mock.Anything).Return(narrator.Image{}, nil).Once()

		assert.Empty(t, newNarrator(t, ai).GenerateImage(ctx, "a troll"))
	})

	t.Run("failure is swallowed", func(t *testing.T) {
		ai := mocks.NewMockCollaborator(t)
		ai.On("GenerateImage", ctx, mock.Anything).Return(narrator.Image{}, fmt.Errorf("quota")).Once()

		assert.Empty(t, newNarrator(t, ai).GenerateImage(ctx, "a troll"))
	})
}

func TestSplitSpeakerAndVoice(t *testing.T) {
	speaker, text := narrator.SplitSpeaker("[Gorak]: You shall not pass!")
	assert.Equal(t, "Gorak", speaker)
	assert.Equal(t, "You shall not pass!", text)
	assert.Equal(t, "Puck", narrator.VoiceFor(speaker)) // len 5 % 4 = 1

	speaker, text = narrator.SplitSpeaker("  The wind howls.")
	assert.Equal(t, narrator.NarratorSpeaker, speaker)
	assert.Equal(t, "The wind howls.", text)
	assert.Equal(t, narrator.NarratorVoice, narrator.VoiceFor(speaker))
}

func TestSpeak(t *testing.T) {
	ctx := context.Background()

	t.Run("clip", func(t *testing.T) {
		ai := mocks.NewMockCollaborator(t)
		ai.On("Synthesize", ctx, narrator.SpeechRequest{Text: "Gorak says: Halt!", Voice: "Puck"}).
			Return([]byte{0, 0, 0, 0x40}, nil).Once()

		clip := newNarrator(t, ai).Speak(ctx, "[Gorak]: Halt!")
		require.NotNil(t, clip)
		assert.Equal(t, []float32{0, 0.5}, clip.Samples())
	})

	t.Run("failure yields nil", func(t *testing.T) {
		ai := mocks.NewMockCollaborator(t)
		ai.On("Synthesize", ctx, mock.Anything).Return(nil, fmt.Errorf("boom")).Once()

		assert.Nil(t, newNarrator(t, ai).Speak(ctx, "Silence."))
	})
}

func TestPrompts(t *testing.T) {
	assert.Equal(t, "RPG Monster, Gorak, a moss troll, cinematic, highly detailed art.",
		narrator.EnemyImagePrompt(story.Enemy{Name: "Gorak", Description: "a moss troll"}))
	assert.Equal(t, "female Elf Mage, physical: silver hair, blessing: none",
		narrator.PortraitPrompt(story.CharacterDraft{Gender: "female", Race: "Elf", Class: story.ClassMage, Appearance: "silver hair"}))
}

func TestRace(t *testing.T) {
	ctx := context.Background()

	t.Run("fast call wins", func(t *testing.T) {
		v, err := narrator.Race(ctx, time.Second, func(context.Context) (int, error) { return 7, nil })
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("timer wins and call is cancelled", func(t *testing.T) {
		cancelled := make(chan struct{})
		_, err := narrator.Race(ctx, 10*time.Millisecond, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 1, ctx.Err()
		})
		assert.True(t, errors.IsTimeout(err))

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("loser was not cancelled")
		}
	})

	t.Run("parent context wins", func(t *testing.T) {
		parent, cancel := context.WithCancel(ctx)
		cancel()
		_, err := narrator.Race(parent, time.Second, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, nil
		})
		// either branch may observe the cancellation first
		if err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	})
}
