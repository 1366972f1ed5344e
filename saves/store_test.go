package saves_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"solo_legend/clock"
	"solo_legend/errors"
	"solo_legend/mocks"
	"solo_legend/saves"
	"solo_legend/story"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSave(id, hero string) story.GameSave {
	return story.GameSave{
		ID:        id,
		World:     story.World{ID: "fantasy-classic", Name: "Eldoria: The Forgotten Kingdom"},
		Character: story.Character{Name: hero, Level: 1, HP: 150, MaxHP: 150},
		Messages:  []story.ChatMessage{{ID: "m1", Sender: story.SenderDM, Content: "Welcome."}},
		GameState: story.GameState{LocationName: "Portal das Sombras"},
	}
}

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.Fixed
	mem   *saves.Memory
	store *saves.Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFixed(epoch)
	s.mem = saves.NewMemory()
	store, err := saves.Open(s.ctx, &saves.Config{Persistence: s.mem, Clock: s.clock})
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreTestSuite) TestPutNewGoesFirst() {
	_, err := s.store.Put(s.ctx, newSave("a", "Aria"))
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.store.Put(s.ctx, newSave("b", "Bram"))
	s.Require().NoError(err)

	list := s.store.List()
	s.Require().Len(list, 2)
	s.Equal("b", list[0].ID)
	s.Equal("a", list[1].ID)
	s.Equal(epoch.Add(time.Minute).UnixMilli(), list[0].LastPlayed)
}

func (s *StoreTestSuite) TestPutReplacesInPlace() {
	_, err := s.store.Put(s.ctx, newSave("a", "Aria"))
	s.Require().NoError(err)
	_, err = s.store.Put(s.ctx, newSave("b", "Bram"))
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	updated := newSave("a", "Aria")
	updated.Character.Level = 2
	got, err := s.store.Put(s.ctx, updated)
	s.Require().NoError(err)
	s.Equal(epoch.Add(time.Hour).UnixMilli(), got.LastPlayed)

	list := s.store.List()
	s.Require().Len(list, 2)
	s.Equal("b", list[0].ID)
	s.Equal(2, list[1].Character.Level)
}

func (s *StoreTestSuite) TestWritesThrough() {
	_, err := s.store.Put(s.ctx, newSave("a", "Aria"))
	s.Require().NoError(err)

	persisted, err := s.mem.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(persisted, 1)
	s.Equal("Aria", persisted[0].Character.Name)

	reopened, err := saves.Open(s.ctx, &saves.Config{Persistence: s.mem})
	s.Require().NoError(err)
	got, err := reopened.Get("a")
	s.Require().NoError(err)
	s.Equal("Portal das Sombras", got.GameState.LocationName)
}

func (s *StoreTestSuite) TestGetReturnsCopy() {
	_, err := s.store.Put(s.ctx, newSave("a", "Aria"))
	s.Require().NoError(err)

	got, err := s.store.Get("a")
	s.Require().NoError(err)
	got.Messages[0].Content = "changed"

	again, err := s.store.Get("a")
	s.Require().NoError(err)
	s.Equal("Welcome.", again.Messages[0].Content)
}

func (s *StoreTestSuite) TestDelete() {
	_, err := s.store.Put(s.ctx, newSave("a", "Aria"))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Delete(s.ctx, "a"))

	_, err = s.store.Get("a")
	s.True(errors.IsNotFound(err))
	s.True(errors.IsNotFound(s.store.Delete(s.ctx, "a")))

	persisted, err := s.mem.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(persisted)
}

func (s *StoreTestSuite) TestPutRequiresID() {
	_, err := s.store.Put(s.ctx, story.GameSave{})
	s.True(errors.IsInvalidArgument(err))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestOpenValidates(t *testing.T) {
	_, err := saves.Open(context.Background(), nil)
	assert.True(t, errors.IsInvalidArgument(err))
	_, err = saves.Open(context.Background(), &saves.Config{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPersistenceFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("load", func(t *testing.T) {
		p := mocks.NewMockPersistence(t)
		p.On("Load", ctx).Return(nil, fmt.Errorf("disk gone")).Once()

		_, err := saves.Open(ctx, &saves.Config{Persistence: p})
		assert.ErrorContains(t, err, "disk gone")
	})

	t.Run("save keeps memory", func(t *testing.T) {
		p := mocks.NewMockPersistence(t)
		p.On("Load", ctx).Return(nil, nil).Once()
		p.On("Save", ctx, mock.MatchedBy(func(l []story.GameSave) bool { return len(l) == 1 })).
			Return(fmt.Errorf("read-only")).Once()

		store, err := saves.Open(ctx, &saves.Config{Persistence: p})
		require.NoError(t, err)
		_, err = store.Put(ctx, newSave("a", "Aria"))
		assert.ErrorContains(t, err, "read-only")
		assert.Len(t, store.List(), 1)
	})
}

func TestSQLitePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	db, err := saves.OpenSQLite(path, "")
	require.NoError(t, err)

	empty, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, db.Save(ctx, []story.GameSave{newSave("a", "Aria")}))
	require.NoError(t, db.Save(ctx, []story.GameSave{newSave("b", "Bram"), newSave("a", "Aria")}))
	require.NoError(t, db.Close())

	db, err = saves.OpenSQLite(path, "")
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)

	_, err = saves.OpenSQLite(" ", "")
	assert.Error(t, err)
}

func TestRedisPersistence(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	r, err := saves.NewRedis(mr.Addr(), "")
	require.NoError(t, err)
	defer r.Close()

	empty, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, r.Save(ctx, []story.GameSave{newSave("a", "Aria")}))
	assert.True(t, mr.Exists(saves.DefaultKey))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Aria", got[0].Character.Name)

	require.NoError(t, mr.Set(saves.DefaultKey, "{not json"))
	_, err = r.Load(ctx)
	assert.ErrorContains(t, err, "decode saves")

	_, err = saves.NewRedis("", "")
	assert.Error(t, err)
}
