package session

import (
	"solo_legend/audio"
	"solo_legend/story"
)

// EventKind names what changed in a session.
type EventKind string

const (
	// EventState is sent after any change to the save (regeneration, forge, persisted action).
	EventState EventKind = "state"
	// EventTurn is sent once per finished turn and carries its cues.
	EventTurn EventKind = "turn"
	// EventEnemyImage is sent when the current enemy's portrait arrives.
	EventEnemyImage EventKind = "enemy_image"
	// EventNarration is sent when a DM message's audio is ready.
	EventNarration EventKind = "narration"
)

// Cues are the one-shot combat effects of a turn.
type Cues struct {
	PlayerHit bool `json:"playerHit"`
	EnemyHit  bool `json:"enemyHit"`
	// EnemyHealth is currentHp/maxHp of the enemy after the turn, 0 when there is none.
	EnemyHealth float64 `json:"enemyHealth"`
}

// Event is pushed to subscribers. Save is a copy taken when the event was raised.
type Event struct {
	Kind        EventKind      `json:"kind"`
	Save        story.GameSave `json:"save"`
	Cues        *Cues          `json:"cues,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	MessageID   string         `json:"messageId,omitempty"`
	Failed      bool           `json:"failed,omitempty"`
}

// Update is the result of a detached media task, applied by the session's run loop.
type Update struct {
	// EnemyName and EnemyImage carry an enemy portrait.
	EnemyName  string
	EnemyImage string
	// MessageID and Clip carry narration audio for a DM message.
	MessageID string
	Clip      *audio.Clip
}

// Outcome is what SubmitAction reports back to the caller.
type Outcome struct {
	Save        story.GameSave
	Cues        Cues
	Suggestions []string
	// Failed is set when the narrator could not be reached or understood. The save then holds
	// the player's message followed by a system message and nothing else changed.
	Failed bool
}
