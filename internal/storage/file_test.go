package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

const commuterJSON = `{
  "id": "commuter",
  "pickup": {
    "id": "commuter_pickup",
    "nodes": [
      {"id": "start", "lines": [{"speaker": "Commuter", "text": "Downtown, please."}],
       "choices": [{"text": "Hop in", "effects": [{"type": "gameplay_hook", "key": "ACCEPT_PICKUP"}]}]}
    ]
  }
}`

const widowYAML = `pickup:
  id: widow_pickup
  nodes:
    - id: start
      lines:
        - speaker: Widow
          text: To the cemetery.
`

const passengersYAML = `- id: 1
  name: Ann
  kind: human
  profile: commuter
- id: 2
  name: Wisp
  kind: ghost
  profile: widow
- id: 3
  name: Lost
  profile: nobody
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "profiles", "commuter.json"), commuterJSON)
	writeFile(t, filepath.Join(dir, "profiles", "widow.yaml"), widowYAML)
	writeFile(t, filepath.Join(dir, "profiles", "broken.json"), `{"id": `)
	writeFile(t, filepath.Join(dir, "profiles", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "passengers.yaml"), passengersYAML)
	return dir
}

func TestFileStore_ListProfiles(t *testing.T) {
	store := NewFileStore(seedDataDir(t), testLogger())

	profiles, err := store.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"commuter": "commuter.json",
		"widow":    "widow.yaml",
	}, profiles)
}

func TestFileStore_ListProfiles_MissingDir(t *testing.T) {
	store := NewFileStore(t.TempDir(), testLogger())
	profiles, err := store.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestFileStore_GetProfile(t *testing.T) {
	store := NewFileStore(seedDataDir(t), testLogger())
	ctx := context.Background()

	tests := []struct {
		name      string
		id        string
		wantEntry string
		wantErr   error
	}{
		{"json", "commuter", "start", nil},
		{"yaml with id from file name", "widow", "start", nil},
		{"missing", "nobody", "", ErrProfileNotFound},
		{"empty id", "", "", ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := store.GetProfile(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, p.ID)
			node, ok := p.PickupSet().Entry()
			require.True(t, ok)
			assert.Equal(t, tt.wantEntry, node.ID)
		})
	}

	_, err := store.GetProfile(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrProfileNotFound), "parse errors are not reported as missing")
}

func TestFileStore_LoadPassengers(t *testing.T) {
	store := NewFileStore(seedDataDir(t), testLogger())

	ps, err := store.LoadPassengers(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 3)

	assert.Equal(t, "Ann", ps[0].DisplayName)
	assert.Equal(t, passenger.Human, ps[0].Kind)
	require.NotNil(t, ps[0].Profile)
	assert.Equal(t, "commuter", ps[0].Profile.ID)

	assert.True(t, ps[1].IsGhost())
	assert.Equal(t, "widow", ps[1].Profile.ID)

	assert.Nil(t, ps[2].Profile, "unresolved profiles stay nil")
	assert.Equal(t, "nobody", ps[2].ProfileKey)
	assert.Equal(t, passenger.Human, ps[2].Kind, "kind defaults to human")
}

func TestFileStore_LoadPassengers_Errors(t *testing.T) {
	t.Run("no roster", func(t *testing.T) {
		_, err := NewFileStore(t.TempDir(), testLogger()).LoadPassengers(context.Background())
		assert.ErrorIs(t, err, ErrPassengersNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "passengers.json"), `[{"id": 1, "name": "A"}, {"id": 1, "name": "B"}]`)
		_, err := NewFileStore(dir, testLogger()).LoadPassengers(context.Background())
		assert.ErrorContains(t, err, "duplicate passenger id 1")
	})

	t.Run("bad kind", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "passengers.json"), `[{"id": 1, "name": "A", "kind": "vampire"}]`)
		_, err := NewFileStore(dir, testLogger()).LoadPassengers(context.Background())
		assert.ErrorContains(t, err, "unknown passenger kind")
	})
}

func TestParsePassengers_UnknownFormat(t *testing.T) {
	_, err := ParsePassengers("passengers.toml", nil)
	assert.ErrorContains(t, err, "unsupported roster format")
}

func TestNewFileStore_DefaultDir(t *testing.T) {
	assert.Equal(t, "./data", NewFileStore("", nil).DataDir())
}

func TestMockStore(t *testing.T) {
	m := NewMockStore()
	store := NewFileStore(seedDataDir(t), testLogger())
	commuter, err := store.GetProfile(context.Background(), "commuter")
	require.NoError(t, err)

	m.AddProfile(commuter)
	m.AddPassenger(PassengerSpec{ID: 7, Name: "Gus", Profile: "commuter"})

	ps, err := m.LoadPassengers(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Same(t, commuter, ps[0].Profile)

	_, err = m.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
