package session

import (
	game_constants "jdr/constants/game"
	redis_models "jdr/models/redis"
	redis_service "jdr/services/redis"

	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

// fakeStorage is an in-memory stand-in for the Redis client. Snapshots
// round-trip through JSON so tests observe the same copy semantics as
// the real backend.
type fakeStorage struct {
	mu    sync.Mutex
	games map[string][]byte

	saveErr      error
	existsErr    error
	alwaysExists bool
	collideWith  string
	existsCalls  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{games: make(map[string][]byte)}
}

func (f *fakeStorage) SaveGameState(state *redis_models.GameState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	f.games[state.ID] = data
	return nil
}

func (f *fakeStorage) GetGameState(gameID string) (*redis_models.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.games[gameID]
	if !ok {
		return nil, redis_service.ErrGameNotFound
	}
	var state redis_models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (f *fakeStorage) GameExists(gameID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.alwaysExists {
		return true, nil
	}
	if gameID == f.collideWith {
		return true, nil
	}
	_, ok := f.games[gameID]
	return ok, nil
}

func (f *fakeStorage) DeleteGameState(gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.games, gameID)
	return nil
}

func TestCreateSession(t *testing.T) {
	store := NewStore(newFakeStorage())

	code, state, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	assert.Regexp(t, codePattern, code)
	assert.Equal(t, code, state.ID)
	assert.Equal(t, "gm1", state.GMID)

	// Roster is exactly the GM.
	require.Len(t, state.Players, 1)
	assert.Equal(t, "gm1", state.Players[0].ID)
	assert.Equal(t, "Alice", state.Players[0].Name)
	assert.True(t, state.Players[0].IsGM)
	assert.Equal(t, game_constants.GMColor, state.Players[0].Color)

	// Default scene.
	assert.False(t, state.Scene.GridEnabled)
	assert.Equal(t, game_constants.DefaultGridSize, state.Scene.GridSize)
	assert.Equal(t, game_constants.DefaultZoom, state.Scene.Zoom)
	assert.Zero(t, state.Scene.OffsetX)
	assert.Zero(t, state.Scene.OffsetY)

	assert.Equal(t, state.CreatedAt, state.LastUpdated)
	assert.Empty(t, state.DiceRolls)
	assert.Empty(t, state.Drawings)
}

func TestCreateSessionValidation(t *testing.T) {
	store := NewStore(newFakeStorage())

	cases := []struct {
		name   string
		gmID   string
		gmName string
	}{
		{"missing id", "", "Alice"},
		{"missing name", "gm1", ""},
		{"missing both", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := store.CreateSession(tc.gmID, tc.gmName)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateSessionExhaustsRetries(t *testing.T) {
	storage := newFakeStorage()
	storage.alwaysExists = true
	store := NewStore(storage)

	_, _, err := store.CreateSession("gm1", "Alice")
	assert.ErrorIs(t, err, ErrCodeGeneration)
	assert.NotErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, game_constants.MaxCodeAttempts, storage.existsCalls)
}

func TestCreateSessionRetriesOnCollision(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(storage)

	first, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	// The next creation is told its candidate collides whenever it
	// draws the first session's code; either way the result must be a
	// different live code.
	storage.collideWith = first
	second, _, err := store.CreateSession("gm2", "Bob")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Regexp(t, codePattern, second)
}

func TestCreateSessionBackendDown(t *testing.T) {
	storage := newFakeStorage()
	storage.existsErr = errors.New("connection refused")
	store := NewStore(storage)

	_, _, err := store.CreateSession("gm1", "Alice")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.NotErrorIs(t, err, ErrCodeGeneration)
}

func TestReadSessionNotFound(t *testing.T) {
	store := NewStore(newFakeStorage())

	_, err := store.ReadSession("ZZZZZZ")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLastUpdatedMonotonic(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, state, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	last := state.LastUpdated
	for i := 0; i < 10; i++ {
		updated, err := store.UpdateNotes(code, fmt.Sprintf("note %d", i))
		require.NoError(t, err)
		assert.Greater(t, updated.LastUpdated, last)
		last = updated.LastUpdated
	}
}

func TestWriteSessionPreservesIdentity(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, created, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	// A client snapshot cannot rewrite the session identity or demote
	// the GM.
	snapshot := *created
	snapshot.ID = "HACKED"
	snapshot.GMID = "intruder"
	snapshot.CreatedAt = 1
	snapshot.SharedNotes = "updated notes"

	updated, err := store.WriteSession(code, &snapshot)
	require.NoError(t, err)
	assert.Equal(t, code, updated.ID)
	assert.Equal(t, "gm1", updated.GMID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "updated notes", updated.SharedNotes)
}

func TestWriteSessionRestoresRosterInvariants(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, created, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	// A snapshot that demotes the GM, duplicates a roster entry and
	// hands the flag to someone else is normalized on write.
	snapshot := *created
	snapshot.Players = []redis_models.Player{
		{ID: "gm1", Name: "Alice", IsGM: false, Color: "#000000"},
		{ID: "gm1", Name: "Alice again", IsGM: false, Color: "#ffffff"},
		{ID: "p2", Name: "Bob", IsGM: true, Color: "#00ff00"},
	}

	updated, err := store.WriteSession(code, &snapshot)
	require.NoError(t, err)

	require.Len(t, updated.Players, 2)
	assert.Equal(t, "gm1", updated.Players[0].ID)
	assert.True(t, updated.Players[0].IsGM, "GM roster entry must stay isGM=true")
	assert.Equal(t, game_constants.GMColor, updated.Players[0].Color)
	assert.Equal(t, "p2", updated.Players[1].ID)
	assert.False(t, updated.Players[1].IsGM)
}

func TestWriteSessionRestoresDroppedGM(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, created, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	// Removing the GM from the roster entirely is undone from the
	// stored entry.
	snapshot := *created
	snapshot.Players = []redis_models.Player{
		{ID: "p2", Name: "Bob", Color: "#00ff00"},
	}

	updated, err := store.WriteSession(code, &snapshot)
	require.NoError(t, err)

	require.Len(t, updated.Players, 2)
	assert.Equal(t, "p2", updated.Players[0].ID)
	assert.Equal(t, "gm1", updated.Players[1].ID)
	assert.Equal(t, "Alice", updated.Players[1].Name)
	assert.True(t, updated.Players[1].IsGM)
	assert.Equal(t, game_constants.GMColor, updated.Players[1].Color)
}

func TestWriteSessionVanished(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(storage)
	code, state, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	// Simulate TTL expiry between read and write.
	require.NoError(t, storage.DeleteGameState(code))

	_, err = store.WriteSession(code, state)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJoinSessionRejoin(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	state, err := store.JoinSession(code, "p2", "Bob", "#00ff00")
	require.NoError(t, err)
	require.Len(t, state.Players, 2)
	firstSeen := state.Players[1].LastSeen

	// Rejoining with the same id refreshes the entry, no duplicate.
	state, err = store.JoinSession(code, "p2", "Bobby", "#0000ff")
	require.NoError(t, err)
	require.Len(t, state.Players, 2)
	assert.Equal(t, "Bobby", state.Players[1].Name)
	assert.Equal(t, "#0000ff", state.Players[1].Color)
	assert.GreaterOrEqual(t, state.Players[1].LastSeen, firstSeen)

	// GM entry untouched.
	assert.True(t, state.Players[0].IsGM)
	assert.Equal(t, "gm1", state.Players[0].ID)
}

func TestJoinSessionGMKeepsRole(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	state, err := store.JoinSession(code, "gm1", "Alice", "#123456")
	require.NoError(t, err)
	require.Len(t, state.Players, 1)
	assert.True(t, state.Players[0].IsGM)
	assert.Equal(t, game_constants.GMColor, state.Players[0].Color)
}

func TestClearDrawingsGMOnly(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)
	_, err = store.JoinSession(code, "p2", "Bob", "#00ff00")
	require.NoError(t, err)

	points := []redis_models.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	state, err := store.AddDrawing(code, "p2", "#000000", 2, points)
	require.NoError(t, err)
	require.Len(t, state.Drawings, 1)
	assert.NotEmpty(t, state.Drawings[0].ID)
	assert.Equal(t, "p2", state.Drawings[0].UserID)

	// Non-GM clear is rejected and the strokes survive.
	_, err = store.ClearDrawings(code, "p2")
	assert.ErrorIs(t, err, ErrNotGameMaster)

	current, err := store.ReadSession(code)
	require.NoError(t, err)
	assert.Len(t, current.Drawings, 1)

	// GM clear empties the collection.
	state, err = store.ClearDrawings(code, "gm1")
	require.NoError(t, err)
	assert.Empty(t, state.Drawings)
}

func TestUpdateSceneGMOnly(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, created, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)
	_, err = store.JoinSession(code, "p2", "Bob", "#00ff00")
	require.NoError(t, err)

	// A player adjusting the view of the current backdrop is fine.
	view := created.Scene
	view.Zoom = 2
	view.OffsetX = 10
	state, err := store.UpdateScene(code, "p2", view)
	require.NoError(t, err)
	assert.Equal(t, 2.0, state.Scene.Zoom)

	// Swapping the backdrop is a scene reset: GM only.
	reset := view
	reset.ImageURL = "https://example.com/cave.jpg"
	_, err = store.UpdateScene(code, "p2", reset)
	assert.ErrorIs(t, err, ErrNotGameMaster)

	state, err = store.UpdateScene(code, "gm1", reset)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cave.jpg", state.Scene.ImageURL)
}

func TestAppendDiceRoll(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	state, err := store.AppendDiceRoll(code, redis_models.DiceRoll{
		PlayerID:   "gm1",
		PlayerName: "Alice",
		Expression: "2d6",
		Values:     []int{3, 5},
		Total:      8,
	})
	require.NoError(t, err)
	require.Len(t, state.DiceRolls, 1)
	assert.NotEmpty(t, state.DiceRolls[0].ID)
	assert.NotZero(t, state.DiceRolls[0].Timestamp)

	// The log is append-only.
	state, err = store.AppendDiceRoll(code, redis_models.DiceRoll{
		PlayerID: "gm1", Expression: "1d20", Values: []int{17}, Total: 17,
	})
	require.NoError(t, err)
	assert.Len(t, state.DiceRolls, 2)
	assert.Equal(t, "2d6", state.DiceRolls[0].Expression)
}

func TestMoveTokenUnknown(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	_, err = store.MoveToken(code, "no-such-token", 1, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlaceAndMoveToken(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	state, err := store.PlaceToken(code, "char-1", 5, 5)
	require.NoError(t, err)
	require.Len(t, state.Tokens, 1)
	tokenID := state.Tokens[0].ID

	state, err = store.MoveToken(code, tokenID, 12, 8)
	require.NoError(t, err)
	assert.Equal(t, 12.0, state.Tokens[0].X)
	assert.Equal(t, 8.0, state.Tokens[0].Y)
}

func TestConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	store := NewStore(newFakeStorage())
	code, _, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := store.AppendDiceRoll(code, redis_models.DiceRoll{
				PlayerID: "gm1", Expression: "1d6", Values: []int{n%6 + 1}, Total: n%6 + 1,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	state, err := store.ReadSession(code)
	require.NoError(t, err)
	assert.Len(t, state.DiceRolls, writers)
}

func TestEndToEndCreateScenario(t *testing.T) {
	store := NewStore(newFakeStorage())

	code, state, err := store.CreateSession("gm1", "Alice")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	assert.False(t, state.Scene.GridEnabled)

	// A second creation that collides with the first code on its first
	// draw still has to come back with a different live code.
	storage := newFakeStorage()
	storage.collideWith = code
	retryStore := NewStore(storage)
	second, _, err := retryStore.CreateSession("gm2", "Bob")
	require.NoError(t, err)
	assert.NotEqual(t, code, second)
}
