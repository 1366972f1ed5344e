package narrator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"solo_legend/errors"
	"solo_legend/prompts"
	"solo_legend/story"
)

const (
	// DefaultStartTimeout bounds the opening scene request.
	DefaultStartTimeout = 12 * time.Second
	// DefaultHistoryWindow is how many recent chat messages are sent as memory.
	DefaultHistoryWindow = 6
)

// Config configures a Narrator.
type Config struct {
	Collaborator  Collaborator
	KeySelector   KeySelector // optional
	Logger        *zap.Logger
	StartTimeout  time.Duration
	HistoryWindow int
}

// Validate checks the required fields.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Collaborator == nil {
		return errors.InvalidArgument("collaborator cannot be nil")
	}
	return nil
}

// Narrator builds requests for the collaborator and parses its replies.
// It holds no game state; callers apply the returned results.
type Narrator struct {
	ai            Collaborator
	keys          KeySelector
	logger        *zap.Logger
	startTimeout  time.Duration
	historyWindow int
}

// New creates a Narrator.
func New(cfg *Config) (*Narrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := &Narrator{
		ai:            cfg.Collaborator,
		keys:          cfg.KeySelector,
		logger:        cfg.Logger,
		startTimeout:  cfg.StartTimeout,
		historyWindow: cfg.HistoryWindow,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.startTimeout <= 0 {
		n.startTimeout = DefaultStartTimeout
	}
	if n.historyWindow <= 0 {
		n.historyWindow = DefaultHistoryWindow
	}
	return n, nil
}

// SystemInstruction embeds the world and hero into the game master's standing orders.
func SystemInstruction(world story.World, c story.Character) string {
	return prompts.System(world.Name, world.Theme, c.Name, c.Race, string(c.Class))
}

// StartAdventure asks for the opening scene, racing the request against the start timeout.
// On timeout it returns a CodeTimeout error; the late reply, if any, is discarded.
func (n *Narrator) StartAdventure(ctx context.Context, c story.Character, world story.World) (story.TurnResult, error) {
	req := TextRequest{
		System: SystemInstruction(world, c),
		Prompt: fmt.Sprintf(prompts.ArrivalPrompt, c.Name, world.Name),
	}

	res, err := Race(ctx, n.startTimeout, func(ctx context.Context) (story.TurnResult, error) {
		return n.turn(ctx, req)
	})
	if err != nil {
		n.logger.Warn("Adventure start failed",
			zap.String("world", world.Name),
			zap.String("character", c.Name),
			zap.Error(err))
		return story.TurnResult{}, err
	}
	return res, nil
}

// TurnRequest is one player action with its context.
type TurnRequest struct {
	Action    string
	Character story.Character
	World     story.World
	History   []story.ChatMessage
	GameState story.GameState
	Roll      *int
}

// ProcessTurn sends one action. No timeout is applied beyond ctx.
func (n *Narrator) ProcessTurn(ctx context.Context, in TurnRequest) (story.TurnResult, error) {
	roll := "n/a"
	if in.Roll != nil {
		roll = strconv.Itoa(*in.Roll)
	}

	req := TextRequest{
		System:  SystemInstruction(in.World, in.Character),
		Prompt:  prompts.Turn(in.Action, roll, in.Character.HP, int(in.Character.Mana), in.GameState.LocationName),
		History: n.memory(in.History),
	}
	return n.turn(ctx, req)
}

// memory converts the most recent chat messages into collaborator history.
func (n *Narrator) memory(msgs []story.ChatMessage) []Message {
	if len(msgs) > n.historyWindow {
		msgs = msgs[len(msgs)-n.historyWindow:]
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		role := RoleUser
		if m.Sender == story.SenderDM {
			role = RoleModel
		}
		out = append(out, Message{Role: role, Text: fmt.Sprintf("%s: %s", m.Sender, m.Content)})
	}
	return out
}

func (n *Narrator) turn(ctx context.Context, req TextRequest) (story.TurnResult, error) {
	text, err := n.generate(ctx, req)
	if err != nil {
		return story.TurnResult{}, err
	}
	res, err := ParseTurn(text)
	if err != nil {
		n.logger.Warn("Unparsable narrator reply", zap.Int("bytes", len(text)), zap.Error(err))
		return story.TurnResult{}, err
	}
	return res, nil
}

// generate calls the collaborator and routes credential failures to the key selector.
// The original error is returned either way; nothing is retried.
func (n *Narrator) generate(ctx context.Context, req TextRequest) (string, error) {
	text, err := n.ai.GenerateText(ctx, req)
	if err == nil {
		return text, nil
	}
	if errors.IsCredential(err) {
		n.selectKey(ctx)
	}
	return "", errors.Wrap(err, "collaborator request failed")
}

func (n *Narrator) selectKey(ctx context.Context) {
	if n.keys == nil {
		return
	}
	if err := n.keys.SelectKey(ctx); err != nil {
		n.logger.Error("Key selection failed", zap.Error(err))
	}
}
