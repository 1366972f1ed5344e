package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solo_legend/audio"
	"solo_legend/errors"
	"solo_legend/narrator"
	"solo_legend/prompts"
	"solo_legend/saves"
	"solo_legend/story"
)

// DieSides are the dice a player may roll.
var DieSides = []int{4, 6, 8, 10, 12, 20}

const (
	subscriberBuffer = 16
	updateBuffer     = 8
)

// Session is the single owner of one save while it is being played.
// All mutation of the save happens under mu; media tasks report back through updates.
type Session struct {
	id       string
	narrator Narrator
	store    *saves.Store
	roll     Roller
	logger   *zap.Logger
	regen    time.Duration

	mu          sync.Mutex
	save        story.GameSave
	inFlight    bool
	muted       bool
	offer       *story.ForgeOffer
	suggestions []string
	clips       map[string]*audio.Clip

	subMu sync.Mutex
	subs  map[chan Event]struct{}

	updates chan Update
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	tasks   sync.WaitGroup
}

func newSession(parent context.Context, save story.GameSave, m *Manager) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		id:          save.ID,
		narrator:    m.narrator,
		store:       m.store,
		roll:        m.roll,
		logger:      m.logger.With(zap.String("save", save.ID)),
		regen:       m.regenInterval,
		save:        save,
		suggestions: append([]string(nil), prompts.DefaultSuggestions...),
		clips:       make(map[string]*audio.Clip),
		subs:        make(map[chan Event]struct{}),
		updates:     make(chan Update, updateBuffer),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// ID returns the save id.
func (s *Session) ID() string { return s.id }

// Save returns a copy of the current save.
func (s *Session) Save() story.GameSave {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.Clone()
}

// Suggestions returns the actions suggested by the last turn.
func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.suggestions...)
}

// Busy reports whether a turn or forge request is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Muted reports whether narration is off.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// ToggleMute flips narration and returns the new state.
func (s *Session) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted
}

// Clip returns the narration audio of a DM message, if it was synthesized.
func (s *Session) Clip(messageID string) (*audio.Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[messageID]
	return c, ok
}

// PendingOffer returns the forge offer awaiting confirmation.
func (s *Session) PendingOffer() (story.ForgeOffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offer == nil {
		return story.ForgeOffer{}, false
	}
	return *s.offer, true
}

// begin claims the in-flight slot.
func (s *Session) begin() error {
	if s.inFlight {
		return errors.FailedPrecondition("the narrator is still answering the previous action")
	}
	s.inFlight = true
	return nil
}

// SubmitAction records the player's action and asks the narrator for the next turn.
// Narrator failures do not surface as errors: they become a system message in the log.
func (s *Session) SubmitAction(ctx context.Context, action string, roll *int) (Outcome, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return Outcome{}, errors.InvalidArgument("action cannot be empty")
	}

	s.mu.Lock()
	if err := s.begin(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	return s.playLocked(ctx, action, roll)
}

// playLocked runs one turn. It must be called with mu held and the in-flight slot claimed,
// and releases mu while the narrator answers.
func (s *Session) playLocked(ctx context.Context, action string, roll *int) (Outcome, error) {
	content := action
	if roll != nil {
		content = fmt.Sprintf(prompts.RollSuffix, action, *roll)
	}
	s.appendMessage(story.SenderUser, content, s.save.Character.PortraitURL)
	req := narrator.TurnRequest{
		Action:    action,
		Character: s.save.Character.Clone(),
		World:     s.save.World,
		History:   append([]story.ChatMessage(nil), s.save.Messages...),
		GameState: s.save.GameState,
		Roll:      roll,
	}
	s.persist(ctx)
	s.mu.Unlock()
	s.publish(EventState)

	res, err := s.narrator.ProcessTurn(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		turnsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Turn failed", zap.String("action", action), zap.Error(err))
		s.appendMessage(story.SenderSystem, prompts.NarratorDistracted, "")
		s.persist(ctx)
		s.publishLocked(Event{Kind: EventTurn, Failed: true})
		return Outcome{Save: s.save.Clone(), Failed: true}, nil
	}

	prior := s.save.GameState
	cues, newEnemy := s.applyTurn(action, res)
	msgID := s.appendMessage(story.SenderDM, res.Narrative, DMAvatar)
	s.suggestions = append([]string(nil), res.SuggestedActions...)
	s.persist(ctx)
	turnsTotal.WithLabelValues("ok").Inc()

	s.logger.Info("Turn processed",
		zap.String("action", action),
		zap.String("location", s.save.GameState.LocationName),
		zap.Bool("combat", s.save.GameState.IsCombat),
		zap.Bool("was_combat", prior.IsCombat),
		zap.Int("level", s.save.Character.Level))

	if newEnemy != nil {
		s.spawn(func(ctx context.Context) {
			img := s.narrator.GenerateImage(ctx, narrator.EnemyImagePrompt(*newEnemy))
			if img != "" {
				s.post(Update{EnemyName: newEnemy.Name, EnemyImage: img})
			}
		})
	}
	if !s.muted {
		narrative := res.Narrative
		s.spawn(func(ctx context.Context) {
			if clip := s.narrator.Speak(ctx, narrative); clip != nil {
				s.post(Update{MessageID: msgID, Clip: clip})
			}
		})
	}

	out := Outcome{Save: s.save.Clone(), Cues: cues, Suggestions: append([]string(nil), s.suggestions...)}
	s.publishLocked(Event{Kind: EventTurn, Cues: &cues, Suggestions: out.Suggestions})
	return out, nil
}

// applyTurn folds a turn result into the save and returns the combat cues plus the enemy whose
// portrait should be generated, if one just appeared.
func (s *Session) applyTurn(action string, res story.TurnResult) (Cues, *story.Enemy) {
	prior := s.save.GameState
	var cues Cues
	cues.PlayerHit = res.HPChange < 0
	if prior.IsCombat && prior.CurrentEnemy != nil && res.EnemyUpdate != nil &&
		res.EnemyUpdate.CurrentHP < prior.CurrentEnemy.CurrentHP {
		cues.EnemyHit = true
	}

	s.save.Character = story.ApplyTurn(s.save.Character, res)

	var appeared *story.Enemy
	enemy := res.EnemyUpdate
	if enemy != nil {
		e := *enemy
		if prior.CurrentEnemy != nil && prior.CurrentEnemy.Name == e.Name {
			if e.ImageURL == "" {
				e.ImageURL = prior.CurrentEnemy.ImageURL
			}
		} else if res.IsCombat {
			cp := e
			appeared = &cp
		}
		enemy = &e
	}

	state := story.GameState{
		LocationName:    prior.LocationName,
		IsCombat:        res.IsCombat,
		LastTurnSummary: action,
		WorldContext:    res.WorldContextUpdate,
	}
	if res.IsCombat {
		state.CurrentEnemy = enemy
		if state.CurrentEnemy == nil {
			state.CurrentEnemy = prior.CurrentEnemy
		}
	}
	if res.LocationUpdate != nil && strings.TrimSpace(*res.LocationUpdate) != "" {
		state.LocationName = *res.LocationUpdate
	}
	s.save.GameState = state
	cues.EnemyHealth = state.CurrentEnemy.HealthRatio()
	return cues, appeared
}

// ProposeForge asks the narrator to judge a skill concept and holds the offer for confirmation.
func (s *Session) ProposeForge(ctx context.Context, concept string) (story.ForgeOffer, error) {
	s.mu.Lock()
	if err := s.begin(); err != nil {
		s.mu.Unlock()
		return story.ForgeOffer{}, err
	}
	character := s.save.Character.Clone()
	s.mu.Unlock()

	offer, err := s.narrator.ProposeSkill(ctx, concept, character)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return story.ForgeOffer{}, err
	}
	s.offer = &offer
	return offer, nil
}

// DiscardForge drops the pending offer.
func (s *Session) DiscardForge() {
	s.mu.Lock()
	s.offer = nil
	s.mu.Unlock()
}

// ConfirmForge buys the pending skill and tells the narrator about it as a regular action.
// The turn slot is held from the purchase through the narrator's answer.
func (s *Session) ConfirmForge(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if err := s.begin(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	if s.offer == nil {
		s.inFlight = false
		s.mu.Unlock()
		return Outcome{}, errors.FailedPrecondition("no skill offer to confirm")
	}
	offer := *s.offer
	c, err := story.ConfirmForge(s.save.Character, offer)
	if err != nil {
		s.inFlight = false
		s.mu.Unlock()
		return Outcome{}, err
	}
	s.save.Character = c
	s.offer = nil
	s.persist(ctx)
	s.logger.Info("Skill forged", zap.String("skill", offer.Skill.Name), zap.Int("cost", offer.ManaCoinCost))
	return s.playLocked(ctx, fmt.Sprintf(prompts.ForgeAcquiredAction, offer.Skill.Name), nil)
}

// RollDie rolls a die with the given number of sides and submits the roll as an action.
func (s *Session) RollDie(ctx context.Context, sides int) (Outcome, error) {
	valid := false
	for _, d := range DieSides {
		if d == sides {
			valid = true
			break
		}
	}
	if !valid {
		return Outcome{}, errors.InvalidArgumentf("no d%d in the dice bag", sides)
	}
	result := s.roll(sides)
	return s.SubmitAction(ctx, fmt.Sprintf(prompts.RolledDieAction, sides), &result)
}

// Subscribe returns a channel of events and a function to stop receiving them.
// Slow subscribers miss events rather than block the session.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.subMu.Unlock()
		})
	}
}

// run owns the regeneration ticker and applies media updates until the session closes.
func (s *Session) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.regen)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.regenerate()
		case u := <-s.updates:
			s.apply(u)
		}
	}
}

func (s *Session) regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return
	}
	c, changed := story.Regenerate(s.save.Character)
	if !changed {
		return
	}
	s.save.Character = c
	s.persist(s.ctx)
	s.publishLocked(Event{Kind: EventState})
}

func (s *Session) apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Clip != nil && u.MessageID != "" {
		s.clips[u.MessageID] = u.Clip
		s.publishLocked(Event{Kind: EventNarration, MessageID: u.MessageID})
	}
	if u.EnemyImage != "" {
		enemy := s.save.GameState.CurrentEnemy
		if enemy == nil || enemy.Name != u.EnemyName {
			s.logger.Debug("Dropping portrait of departed enemy", zap.String("enemy", u.EnemyName))
			return
		}
		enemy.ImageURL = u.EnemyImage
		s.persist(s.ctx)
		s.publishLocked(Event{Kind: EventEnemyImage})
	}
}

// spawn runs a detached media task bound to the session's lifetime.
func (s *Session) spawn(fn func(ctx context.Context)) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		fn(s.ctx)
	}()
}

func (s *Session) post(u Update) {
	select {
	case s.updates <- u:
	case <-s.ctx.Done():
	}
}

// close stops the run loop and waits for media tasks.
func (s *Session) close() {
	s.cancel()
	<-s.done
	s.tasks.Wait()

	s.subMu.Lock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Session) appendMessage(sender story.Sender, content, avatar string) string {
	id := uuid.NewString()
	s.save.Messages = append(s.save.Messages, story.ChatMessage{
		ID:        id,
		Sender:    sender,
		Content:   content,
		AvatarURL: avatar,
	})
	return id
}

// persist writes the save through the store. Failures are logged; play continues in memory.
// A closed session no longer writes, so a deleted save stays deleted.
func (s *Session) persist(ctx context.Context) {
	if s.ctx.Err() != nil {
		return
	}
	stored, err := s.store.Put(context.WithoutCancel(ctx), s.save)
	if err != nil {
		s.logger.Error("Failed to persist save", zap.Error(err))
		return
	}
	s.save.LastPlayed = stored.LastPlayed
}

func (s *Session) publish(kind EventKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(Event{Kind: kind})
}

// publishLocked must be called with mu held.
func (s *Session) publishLocked(ev Event) {
	ev.Save = s.save.Clone()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
