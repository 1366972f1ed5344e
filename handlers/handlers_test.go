package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"solo_legend/clock"
	"solo_legend/errors"
	"solo_legend/handlers"
	"solo_legend/mocks"
	"solo_legend/narrator"
	"solo_legend/saves"
	"solo_legend/session"
	"solo_legend/story"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const turnReply = `{"narrative": "The gate creaks open.", "visual_description": "A gate", "hp_change": 0,
"xp_change": 10, "is_combat": false, "suggested_actions": ["Enter", "Wait"], "world_context_update": "At the gate"}`

type HandlersTestSuite struct {
	suite.Suite
	ai      *mocks.MockCollaborator
	store   *saves.Store
	manager *session.Manager
	server  *httptest.Server
	client  *http.Client
}

func (s *HandlersTestSuite) SetupTest() {
	t := s.T()
	s.ai = mocks.NewMockCollaborator(t)
	// Narration audio is best effort; no clip is produced in these tests.
	s.ai.On("Synthesize", mock.Anything, mock.Anything).Return(nil, errors.GenerationFailure("no audio")).Maybe()

	n, err := narrator.New(&narrator.Config{Collaborator: s.ai, StartTimeout: 50 * time.Millisecond})
	s.Require().NoError(err)

	s.store, err = saves.Open(context.Background(), &saves.Config{Persistence: saves.NewMemory(), Clock: clock.NewFixed(epoch)})
	s.Require().NoError(err)

	s.manager, err = session.NewManager(&session.Config{
		Narrator:      n,
		Store:         s.store,
		Clock:         clock.NewFixed(epoch),
		RegenInterval: time.Hour,
		Roller:        func(int) int { return 4 },
	})
	s.Require().NoError(err)

	h, err := handlers.New(&handlers.Config{Manager: s.manager, Painter: n, Clock: clock.NewFixed(epoch)})
	s.Require().NoError(err)
	mux := http.NewServeMux()
	h.Register(mux)
	s.server = httptest.NewServer(mux)

	s.client = &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}

func (s *HandlersTestSuite) TearDownTest() {
	s.server.Close()
	s.manager.Close()
}

func (s *HandlersTestSuite) seed() story.GameSave {
	c, err := story.NewCharacter(story.CharacterDraft{
		Name: "Aria", Race: "Elf", Class: story.ClassRogue, Attributes: story.DefaultAttributes(),
		Backstory: "Raised by wolves.",
	})
	s.Require().NoError(err)
	world, ok := story.PresetWorld("fantasy-classic", epoch)
	s.Require().True(ok)
	save, err := s.store.Put(context.Background(), story.GameSave{
		ID:        "save-1",
		World:     world,
		Character: c,
		Messages:  []story.ChatMessage{{ID: "m0", Sender: story.SenderDM, Content: "You stand before a gate."}},
		GameState: story.GameState{LocationName: "Old Gate"},
	})
	s.Require().NoError(err)
	return save
}

func (s *HandlersTestSuite) get(path string) (*http.Response, string) {
	resp, err := s.client.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp, readBody(s.T(), resp)
}

func (s *HandlersTestSuite) post(path string, form url.Values, htmx bool) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(form.Encode()))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp, readBody(s.T(), resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (s *HandlersTestSuite) TestHubListsSavesAndWorlds() {
	s.seed()
	resp, body := s.get("/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Aria")
	s.Contains(body, "/play/save-1")
	s.Contains(body, "/download/save-1")
	for _, w := range story.PresetWorlds() {
		s.Contains(body, "/creator?world="+url.QueryEscape(w.ID))
	}
}

func (s *HandlersTestSuite) TestCreatorForPresetWorld() {
	resp, body := s.get("/creator?world=fantasy-classic")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `name="world_id" value="fantasy-classic"`)

	resp, _ = s.get("/creator?world=atlantis")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestCustomWorldRequiresTheme() {
	resp, _ := s.post("/creator", url.Values{"name": {"Hollow Earth"}}, false)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, body := s.post("/creator", url.Values{"name": {"Hollow Earth"}, "theme": {"Pulp adventure"}}, false)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Hollow Earth")
	s.Contains(body, `name="world_id" value="custom-`)
}

func (s *HandlersTestSuite) TestPortraitPreview() {
	s.ai.On("GenerateImage", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Elf")
	})).Return(narrator.Image{MIMEType: "image/png", Data: []byte("png")}, nil).Once()

	resp, body := s.post("/portrait", url.Values{"race": {"Elf"}, "class": {"Mage"}}, true)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `value="data:image/png;base64,cG5n"`)
}

func (s *HandlersTestSuite) TestCreateAdventureRejectsOverspentAttributes() {
	resp, body := s.post("/adventures", url.Values{
		"world_id": {"fantasy-classic"}, "name": {"Aria"}, "race": {"Elf"}, "class": {"Mage"},
		"strength": {"22"}, "dexterity": {"20"}, "intelligence": {"10"}, "wisdom": {"10"},
	}, false)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, `class="error"`)
	s.Empty(s.store.List())
}

func (s *HandlersTestSuite) TestCreateAdventureRejectsHugeAttribute() {
	resp, body := s.post("/adventures", url.Values{
		"world_id": {"fantasy-classic"}, "name": {"Aria"}, "race": {"Elf"}, "class": {"Mage"},
		"strength": {"9223372036854775807"}, "dexterity": {"9223372036854775807"}, "intelligence": {"10"}, "wisdom": {"10"},
	}, false)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "strength cannot exceed 30")
	s.Empty(s.store.List())
}

func (s *HandlersTestSuite) TestCreateAdventureFallsBackAndRedirects() {
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.GenerationFailure("offline")).Once()

	resp, _ := s.post("/adventures", url.Values{
		"world_id": {"fantasy-classic"}, "name": {"Aria"}, "race": {"Elf"}, "class": {"Mage"},
	}, false)
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	list := s.store.List()
	s.Require().Len(list, 1)
	s.Equal("/play/"+list[0].ID, resp.Header.Get("Location"))
	s.Equal(session.FallbackCoins, list[0].Character.ManaCoins)
	s.Equal(story.ClassMage, list[0].Character.Class)
}

func (s *HandlersTestSuite) TestPlayPage() {
	s.seed()
	resp, body := s.get("/play/save-1")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "You stand before a gate.")
	s.Contains(body, "/play/save-1/ws")
	s.Contains(body, "D20")

	resp, _ = s.get("/play/missing")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestActionRendersPanel() {
	s.seed()
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return(turnReply, nil).Once()

	resp, body := s.post("/play/save-1/action", url.Values{"action": {"Open the gate"}}, true)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Open the gate")
	s.Contains(body, "The gate creaks open.")
	s.Contains(body, ">Enter</button>")
	s.NotContains(body, "<html")

	save, err := s.store.Get("save-1")
	s.Require().NoError(err)
	s.Len(save.Messages, 3)
	s.Equal(10, save.Character.XP)
}

func (s *HandlersTestSuite) TestBlankActionIsRejected() {
	s.seed()
	resp, body := s.post("/play/save-1/action", url.Values{"action": {"  "}}, true)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "action cannot be empty")

	resp, _ = s.post("/play/save-1/action", url.Values{"action": {""}}, false)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersTestSuite) TestRollRedirectsPlainForms() {
	s.seed()
	s.ai.On("GenerateText", mock.Anything, mock.MatchedBy(func(req narrator.TextRequest) bool {
		return strings.Contains(req.Prompt, "Rolled a D6") && strings.Contains(req.Prompt, "DIE: 4")
	})).Return(turnReply, nil).Once()

	resp, _ := s.post("/play/save-1/roll", url.Values{"sides": {"6"}}, false)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/play/save-1", resp.Header.Get("Location"))

	resp, _ = s.post("/play/save-1/roll", url.Values{"sides": {"7"}}, false)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersTestSuite) TestMuteToggles() {
	s.seed()
	_, body := s.post("/play/save-1/mute", nil, true)
	s.Contains(body, ">Unmute</button>")
	_, body = s.post("/play/save-1/mute", nil, true)
	s.Contains(body, ">Mute</button>")
}

func (s *HandlersTestSuite) TestForgeShowsOffer() {
	s.seed()
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return(`{"skill": {"name": "Shadow Step", "description": "Blink behind a foe",
"cost": 15, "effect_type": "utility", "cooldown": 2}, "mana_coin_cost": 500, "is_approved": true}`, nil).Once()

	resp, body := s.post("/play/save-1/forge", url.Values{"concept": {"teleport behind"}}, true)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Shadow Step")
	s.Contains(body, "Not enough mana-coins")

	_, body = s.post("/play/save-1/forge/confirm", nil, true)
	s.Contains(body, `class="error"`)

	_, body = s.post("/play/save-1/forge/discard", nil, true)
	s.NotContains(body, "Shadow Step")
}

func (s *HandlersTestSuite) TestAudioMissingClip() {
	s.seed()
	resp, _ := s.get("/play/save-1/audio/m0")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestDownloadChronicle() {
	s.seed()
	resp, body := s.get("/download/save-1")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/pdf", resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "Aria_2026-03-01.pdf")
	s.True(strings.HasPrefix(body, "%PDF"))

	resp, _ = s.get("/download/missing")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestDeleteSave() {
	s.seed()
	_, err := s.manager.Session("save-1")
	s.Require().NoError(err)

	resp, _ := s.post("/saves/save-1/delete", nil, false)
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))

	_, err = s.store.Get("save-1")
	s.True(errors.IsNotFound(err))

	resp, _ = s.post("/saves/save-1/delete", nil, false)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestUpdatesPushTurnEvents() {
	s.seed()
	s.ai.On("GenerateText", mock.Anything, mock.Anything).Return(turnReply, nil).Once()

	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/play/save-1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	defer conn.Close()

	s.post("/play/save-1/action", url.Values{"action": {"Open the gate"}}, true)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	var kinds []string
	for {
		var msg struct {
			Kind string          `json:"kind"`
			Cues json.RawMessage `json:"cues"`
			Save json.RawMessage `json:"save"`
		}
		s.Require().NoError(conn.ReadJSON(&msg))
		s.Nil(msg.Save)
		kinds = append(kinds, msg.Kind)
		if msg.Kind == string(session.EventTurn) {
			s.NotNil(msg.Cues)
			break
		}
	}
	s.Equal([]string{string(session.EventState), string(session.EventTurn)}, kinds)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func TestNewValidation(t *testing.T) {
	_, err := handlers.New(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = handlers.New(&handlers.Config{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestChronicleIncludesEveryMessage(t *testing.T) {
	save := story.GameSave{
		ID:    "s",
		World: story.World{Name: "Yharnam", Theme: "Gothic horror"},
		Character: story.Character{Name: "Gascoigne", Race: "Human", Class: story.ClassWarrior, Level: 3,
			Skills: []story.Skill{{Name: "Beast Claw"}}},
		Messages: []story.ChatMessage{
			{Sender: story.SenderDM, Content: "The bells toll."},
			{Sender: story.SenderUser, Content: "Light a lamp · carefully"},
			{Sender: story.SenderSystem, Content: "Skill acquired."},
		},
	}
	doc, err := handlers.Chronicle(save)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF-"))
	assert.Greater(t, len(doc), 500)
}
