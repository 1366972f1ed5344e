package narrator_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"solo_legend/errors"
	"solo_legend/mocks"
	"solo_legend/narrator"
	"solo_legend/story"
)

type NarratorTestSuite struct {
	suite.Suite
	ai    *mocks.MockCollaborator
	keys  *mocks.MockKeySelector
	n     *narrator.Narrator
	ctx   context.Context
	hero  story.Character
	world story.World
}

func (s *NarratorTestSuite) SetupTest() {
	s.ai = mocks.NewMockCollaborator(s.T())
	s.keys = mocks.NewMockKeySelector(s.T())
	n, err := narrator.New(&narrator.Config{
		Collaborator: s.ai,
		KeySelector:  s.keys,
		StartTimeout: 50 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.n = n
	s.ctx = context.Background()

	hero, err := story.NewCharacter(story.CharacterDraft{
		Name: "Aria", Race: "Elf", Class: story.ClassMage, Attributes: story.DefaultAttributes(),
	})
	s.Require().NoError(err)
	s.hero = hero
	s.world, _ = story.PresetWorld("fantasy-classic", time.Now())
}

func TestNarratorSuite(t *testing.T) {
	suite.Run(t, new(NarratorTestSuite))
}

func (s *NarratorTestSuite) TestStartAdventure() {
	s.ai.On("GenerateText", mock.Anything, mock.MatchedBy(func(req narrator.TextRequest) bool {
		return strings.Contains(req.System, "Eldoria") &&
			strings.Contains(req.System, "Aria (Elf Mage)") &&
			strings.Contains(req.Prompt, "The hero Aria arrives in Eldoria") &&
			req.Schema == nil && len(req.History) == 0
	})).Return("```json\n{\"narrative\":\"You arrive.\",\"location_update\":\"Tavern\"}\n```", nil).Once()

	res, err := s.n.StartAdventure(s.ctx, s.hero, s.world)
	s.Require().NoError(err)
	s.Equal("You arrive.", res.Narrative)
	s.Require().NotNil(res.LocationUpdate)
	s.Equal("Tavern", *res.LocationUpdate)
}

func (s *NarratorTestSuite) TestStartAdventureTimesOut() {
	release := make(chan struct{})
	defer close(release)

	s.ai.On("GenerateText", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(`{"narrative":"too late"}`, nil).Once()

	start := time.Now()
	_, err := s.n.StartAdventure(s.ctx, s.hero, s.world)
	s.True(errors.IsTimeout(err), "got %v", err)
	s.Less(time.Since(start), time.Second)
}

func (s *NarratorTestSuite) TestProcessTurnPrompt() {
	roll := 17
	history := make([]story.ChatMessage, 0, 10)
	for i := 0; i < 10; i++ {
		sender := story.SenderUser
		if i%2 == 1 {
			sender = story.SenderDM
		}
		history = append(history, story.ChatMessage{ID: fmt.Sprint(i), Sender: sender, Content: fmt.Sprintf("msg %d", i)})
	}
	s.hero.HP = 88
	s.hero.Mana = 42.7

	s.ai.On("GenerateText", mock.Anything, mock.MatchedBy(func(req narrator.TextRequest) bool {
		if len(req.History) != 6 {
			return false
		}
		return req.Prompt == "ACTION: open the door | DIE: 17. HP: 88, MP: 42. LOCATION: Crypt." &&
			req.History[0].Text == "user: msg 4" &&
			req.History[1].Role == narrator.RoleModel &&
			req.History[5].Text == "dm: msg 9"
	})).Return(`{"narrative":"The door creaks.","hp_change":-3}`, nil).Once()

	res, err := s.n.ProcessTurn(s.ctx, narrator.TurnRequest{
		Action:    "open the door",
		Character: s.hero,
		World:     s.world,
		History:   history,
		GameState: story.GameState{LocationName: "Crypt"},
		Roll:      &roll,
	})
	s.Require().NoError(err)
	s.Equal(-3, res.HPChange)
}

func (s *NarratorTestSuite) TestProcessTurnWithoutRoll() {
	s.ai.On("GenerateText", mock.Anything, mock.MatchedBy(func(req narrator.TextRequest) bool {
		return strings.Contains(req.Prompt, "DIE: n/a")
	})).Return(`{}`, nil).Once()

	_, err := s.n.ProcessTurn(s.ctx, narrator.TurnRequest{Action: "wait", Character: s.hero, World: s.world})
	s.NoError(err)
}

func (s *NarratorTestSuite) TestProcessTurnMalformed() {
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return("I refuse to answer in JSON.", nil).Once()

	_, err := s.n.ProcessTurn(s.ctx, narrator.TurnRequest{Action: "look", Character: s.hero, World: s.world})
	s.True(errors.IsMalformedResponse(err))
}

func (s *NarratorTestSuite) TestCredentialErrorTriggersKeySelection() {
	rejected := errors.Credential(fmt.Errorf("API key not valid"))
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return("", rejected).Once()
	s.keys.On("SelectKey", mock.Anything).Return(nil).Once()

	_, err := s.n.ProcessTurn(s.ctx, narrator.TurnRequest{Action: "look", Character: s.hero, World: s.world})
	s.True(errors.IsCredential(err))
	s.ai.AssertNumberOfCalls(s.T(), "GenerateText", 1)
}

func (s *NarratorTestSuite) TestOtherErrorsSkipKeySelection() {
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return("", fmt.Errorf("503")).Once()

	_, err := s.n.ProcessTurn(s.ctx, narrator.TurnRequest{Action: "look", Character: s.hero, World: s.world})
	s.Error(err)
	s.keys.AssertNotCalled(s.T(), "SelectKey", mock.Anything)
}

func (s *NarratorTestSuite) TestProposeSkill() {
	s.ai.On("GenerateText", mock.Anything, mock.MatchedBy(func(req narrator.TextRequest) bool {
		return req.Schema == narrator.ForgeSchema &&
			strings.Contains(req.Prompt, "class Mage") &&
			strings.Contains(req.Prompt, "a ring of fire")
	})).Return(`{"skill":{"name":"Ember Nova","description":"d","cost":10,"effect_type":"damage","cooldown":1},"mana_coin_cost":60,"is_approved":true}`, nil).Once()

	before := s.hero.Clone()
	offer, err := s.n.ProposeSkill(s.ctx, "a ring of fire", s.hero)
	s.Require().NoError(err)
	s.True(offer.IsApproved)
	s.Equal(60, offer.ManaCoinCost)
	s.Equal(before, s.hero)
}

func (s *NarratorTestSuite) TestProposeSkillRejectsEmptyConcept() {
	_, err := s.n.ProposeSkill(s.ctx, "   ", s.hero)
	s.True(errors.IsInvalidArgument(err))
}

func TestNewRequiresCollaborator(t *testing.T) {
	_, err := narrator.New(&narrator.Config{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
