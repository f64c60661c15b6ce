package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
)

const validProfile = `id: night_nurse
pickup:
  id: nurse_pickup
  nodes:
    - id: start
      lines:
        - speaker: nurse
          text: Shift's over. St. Mary's?
      choices:
        - text: Get in
          conditions:
            - key: isGhost
              value: "false"
          effects:
            - type: set_var
              key: mood
              value: relieved
            - type: gameplay_hook
              key: ACCEPT_PICKUP
        - text: Sorry
          effects:
            - type: gameplay_hook
              key: DECLINE_PICKUP
ride:
  id: nurse_ride
  nodes:
    - id: start
      lines:
        - speaker: nurse
          text: Long night.
  ride_triggers:
    - type: ride_time
      threshold: 20
      entry_node_id: start
`

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"valid", "night_nurse.yaml", validProfile, ""},
		{"bad extension", "night_nurse.txt", validProfile, "extension"},
		{"bad file name", "NightNurse.yaml", validProfile, "lowercase snake_case"},
		{"unknown field", "extra.json", `{"id": "extra", "colour": "red"}`, "unknown field"},
		{"unknown hook", "tipper.json", `{"id": "tipper", "pickup": {"id": "p", "nodes": [
			{"id": "start", "choices": [{"text": "Tip", "effects": [{"type": "gameplay_hook", "key": "PAY_TIP"}]}]}]}}`, "PAY_TIP"},
		{"dangling next", "lost.json", `{"id": "lost", "pickup": {"id": "p", "nodes": [
			{"id": "start", "auto_next_node_id": "nowhere"}]}}`, "nowhere"},
		{"style", "styled.json", `{"id": "Styled", "pickup": {"id": "p", "nodes": [
			{"id": "Start", "choices": [{"text": "x", "conditions": [{"key": "MoodKey", "value": "1"}],
			  "effects": [{"type": "set_var", "key": "Bad-Var", "value": "1"}]}]}], "entry_node_id": "Start"}}`, "should be lowercase snake_case"},
		{"pickup with triggers", "trig.json", `{"id": "trig", "pickup": {"id": "p", "nodes": [{"id": "start"}],
			"ride_triggers": [{"type": "game_event", "event_key": "storm", "entry_node_id": "start"}]}}`, "only apply to the ride set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProfile(t, dir, tt.file, tt.content)
			err := (&ProfileValidator{}).validateFile(path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateFile_ExtraHooks(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "tipper.json", `{"id": "tipper", "pickup": {"id": "p", "nodes": [
		{"id": "start", "choices": [{"text": "Tip", "effects": [{"type": "gameplay_hook", "key": "PAY_TIP"}]}]}]}}`)

	assert.ErrorContains(t, (&ProfileValidator{}).validateFile(path), "PAY_TIP")
	assert.NoError(t, (&ProfileValidator{hooks: parseHooks("PAY_TIP")}).validateFile(path))
}

func TestParseHooks(t *testing.T) {
	hooks := parseHooks(" PAY_TIP, ,HONK ")
	assert.Equal(t, []dialogue.HookKind{dialogue.HookAcceptPickup, dialogue.HookDeclinePickup, "HONK", "PAY_TIP"}, hooks.Kinds())
	assert.Len(t, parseHooks(""), 2)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "profiles")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	a := writeProfile(t, sub, "a.json", "{}")
	b := writeProfile(t, sub, "b.yml", "")
	writeProfile(t, sub, "readme.md", "")
	single := writeProfile(t, dir, "c.yaml", "")

	files, err := collectFiles([]string{sub, single})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b, single}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestIsValidVariableName(t *testing.T) {
	assert.True(t, isValidVariableName("branch_key"))
	assert.True(t, isValidVariableName("isGhost"))
	assert.True(t, isValidVariableName("accepted"))
	assert.False(t, isValidVariableName("Mood"))
	assert.False(t, isValidVariableName("bad-var"))
}

func TestShippedProfilesAreValid(t *testing.T) {
	files, err := collectFiles([]string{filepath.Join("..", "..", "data", "profiles")})
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		assert.NoError(t, (&ProfileValidator{}).validateFile(f), f)
	}
}
