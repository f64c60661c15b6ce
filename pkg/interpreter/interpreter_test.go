package interpreter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/state"
)

// recordingPresenter keeps a transcript of presentation commands.
type recordingPresenter struct {
	calls   []string
	options []Option
	open    bool
}

func (p *recordingPresenter) Open() {
	p.open = true
	p.calls = append(p.calls, "open")
}

func (p *recordingPresenter) Close() {
	p.open = false
	p.calls = append(p.calls, "close")
}

func (p *recordingPresenter) ShowLine(speaker, text string) {
	p.calls = append(p.calls, fmt.Sprintf("line %s: %s", speaker, text))
}

func (p *recordingPresenter) ShowChoices(options []Option) {
	p.options = options
	p.calls = append(p.calls, fmt.Sprintf("choices %d", len(options)))
}

type effectFunc func(r *Run, e dialogue.Effect)

func (f effectFunc) ApplyEffect(r *Run, e dialogue.Effect) { f(r, e) }

func mustSet(t *testing.T, nodes ...dialogue.Node) *dialogue.Set {
	t.Helper()
	s, err := dialogue.NewSet("test", "start", nodes...)
	require.NoError(t, err)
	return s
}

func startRun(t *testing.T, set *dialogue.Set, nodeID string, rs *state.PassengerRunState, isGhost bool, effects EffectApplier) (*Run, *recordingPresenter, *int) {
	t.Helper()
	node, ok := set.Node(nodeID)
	require.True(t, ok)
	p := &recordingPresenter{}
	closed := 0
	run, err := Start(Config{
		Subject:   Subject{PassengerID: 1, IsGhost: isGhost, State: rs},
		Set:       set,
		Node:      node,
		Pickup:    true,
		Presenter: p,
		Effects:   effects,
		OnClose:   func(*Run) { closed++ },
	})
	require.NoError(t, err)
	return run, p, &closed
}

func TestRun_LinesThenClose(t *testing.T) {
	set := mustSet(t, dialogue.Node{ID: "start", Lines: []dialogue.Line{
		{Speaker: "Ann", Text: "Hi"},
		{Speaker: "Ann", Text: "Bye"},
	}})
	run, p, closed := startRun(t, set, "start", nil, false, nil)

	assert.Equal(t, PhaseLine, run.Phase())
	assert.ErrorIs(t, run.Select(0), ErrNotWaitingForChoice)
	require.NoError(t, run.Advance())
	require.NoError(t, run.Advance())

	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)
	assert.Equal(t, []string{"open", "line Ann: Hi", "line Ann: Bye", "close"}, p.calls)
	assert.ErrorIs(t, run.Advance(), ErrRunClosed)
}

func TestRun_EmptyNodeOpensAndCloses(t *testing.T) {
	set := mustSet(t, dialogue.Node{ID: "start"})
	run, p, closed := startRun(t, set, "start", nil, false, nil)

	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)
	assert.Equal(t, []string{"open", "close"}, p.calls)
}

func TestRun_ChoiceAppliesEffectsAndFollowsNext(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", Choices: []dialogue.Choice{
			{Text: "Chat", Effects: []dialogue.Effect{dialogue.SetVar("mood", "chatty")}, NextNodeID: "talk"},
			{Text: "Quiet"},
		}},
		dialogue.Node{ID: "talk", Lines: []dialogue.Line{{Speaker: "Ann", Text: "Nice weather"}}},
	)
	rs := state.NewPassengerRunState(1)
	run, p, closed := startRun(t, set, "start", rs, false, nil)

	require.Equal(t, PhaseChoice, run.Phase())
	require.Len(t, p.options, 2)
	assert.Equal(t, Option{Text: "Quiet", Index: 1}, p.options[1])
	assert.ErrorIs(t, run.Advance(), ErrNotWaitingForAdvance)

	require.NoError(t, run.Select(0))
	assert.Equal(t, "chatty", rs.Get("mood"))
	assert.Equal(t, "talk", run.Node().ID, "same run continues into the next node")
	assert.Equal(t, 0, *closed)

	require.NoError(t, run.Advance())
	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)
}

func TestRun_SelectOutOfRange(t *testing.T) {
	set := mustSet(t, dialogue.Node{ID: "start", Choices: []dialogue.Choice{{Text: "Only"}}})
	run, _, _ := startRun(t, set, "start", nil, false, nil)

	err := run.Select(3)
	assert.True(t, errors.Is(err, ErrChoiceOutOfRange))
	assert.Equal(t, PhaseChoice, run.Phase(), "run keeps waiting after a bad index")
	assert.ErrorIs(t, run.Select(-1), ErrChoiceOutOfRange)

	require.NoError(t, run.Select(0))
	assert.True(t, run.Closed())
}

func TestRun_ConditionsFilterChoices(t *testing.T) {
	set := mustSet(t, dialogue.Node{ID: "start", Choices: []dialogue.Choice{
		{Text: "Human", Conditions: []dialogue.Condition{{Key: "isGhost", Value: "false"}}},
		{Text: "Ghost", Conditions: []dialogue.Condition{{Key: "isGhost", Value: "true"}}},
		{Text: "Known", Conditions: []dialogue.Condition{{Key: "branch_key", Value: "regular"}}},
	}})

	rs := state.NewPassengerRunState(1)
	rs.Set("branch_key", "regular")
	run, p, _ := startRun(t, set, "start", rs, true, nil)

	require.Len(t, p.options, 2)
	assert.Equal(t, "Ghost", p.options[0].Text)
	assert.Equal(t, "Known", p.options[1].Text)
	assert.Equal(t, "Known", run.Choices()[1].Text)
}

func TestRun_AutoNext(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", Lines: []dialogue.Line{{Text: "one"}}, AutoNextNodeID: "silent"},
		dialogue.Node{ID: "silent", AutoNextNodeID: "two"},
		dialogue.Node{ID: "two", Lines: []dialogue.Line{{Text: "two"}}},
	)
	run, p, _ := startRun(t, set, "start", nil, false, nil)

	require.NoError(t, run.Advance())
	assert.Equal(t, "two", run.Node().ID)
	require.NoError(t, run.Advance())
	assert.Equal(t, []string{"open", "line : one", "line : two", "close"}, p.calls)
}

func TestRun_ChoicesTakePrecedenceOverAutoNext(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", Choices: []dialogue.Choice{{Text: "Pick"}}, AutoNextNodeID: "other"},
		dialogue.Node{ID: "other", Lines: []dialogue.Line{{Text: "never"}}},
	)
	run, _, _ := startRun(t, set, "start", nil, false, nil)
	assert.Equal(t, PhaseChoice, run.Phase())
}

func TestRun_UnknownNextEndsBranch(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", Choices: []dialogue.Choice{{Text: "Go", NextNodeID: "nowhere"}}},
		dialogue.Node{ID: "auto", AutoNextNodeID: "nowhere"},
	)
	run, _, closed := startRun(t, set, "start", nil, false, nil)
	require.NoError(t, run.Select(0))
	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)

	run, _, closed = startRun(t, set, "auto", nil, false, nil)
	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)
}

func TestRun_EmptyCycleTerminates(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", AutoNextNodeID: "loop"},
		dialogue.Node{ID: "loop", AutoNextNodeID: "start"},
	)
	run, _, closed := startRun(t, set, "start", nil, false, nil)
	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed)
}

func TestRun_HookCanCloseRun(t *testing.T) {
	set := mustSet(t,
		dialogue.Node{ID: "start", Choices: []dialogue.Choice{{
			Text: "Accept",
			Effects: []dialogue.Effect{
				dialogue.Hook(dialogue.HookAcceptPickup),
				dialogue.SetVar("after", "yes"),
			},
			NextNodeID: "more",
		}}},
		dialogue.Node{ID: "more", Lines: []dialogue.Line{{Text: "should not show"}}},
	)

	var hooks []string
	effects := effectFunc(func(r *Run, e dialogue.Effect) {
		hooks = append(hooks, e.Key)
		r.Close()
	})
	rs := state.NewPassengerRunState(1)
	run, p, closed := startRun(t, set, "start", rs, false, effects)

	require.NoError(t, run.Select(0))
	assert.Equal(t, []string{"ACCEPT_PICKUP"}, hooks)
	assert.Equal(t, "yes", rs.Get("after"), "remaining effects still apply")
	assert.True(t, run.Closed())
	assert.Equal(t, 1, *closed, "close callback fires once")
	assert.NotContains(t, p.calls, "line : should not show")
}

func TestRun_CloseIsIdempotent(t *testing.T) {
	set := mustSet(t, dialogue.Node{ID: "start", Lines: []dialogue.Line{{Text: "hi"}}})
	run, p, closed := startRun(t, set, "start", nil, false, nil)

	run.Close()
	run.Close()
	assert.Equal(t, 1, *closed)
	assert.Equal(t, []string{"open", "line : hi", "close"}, p.calls)
	assert.Nil(t, run.Node())
}

func TestStart_Errors(t *testing.T) {
	_, err := Start(Config{Presenter: &recordingPresenter{}})
	assert.ErrorIs(t, err, dialogue.ErrNodeNotFound)

	_, err = Start(Config{Node: &dialogue.Node{ID: "x"}})
	assert.Error(t, err)
}
