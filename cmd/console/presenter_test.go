package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/ride-engine/pkg/interpreter"
)

func TestTranscript(t *testing.T) {
	tr := newTranscript()

	tr.Open()
	assert.True(t, tr.open)
	tr.ShowLine("old_man", "Cold night.")
	tr.ShowLine("", "The wipers squeak.")
	tr.ShowChoices([]interpreter.Option{{Text: "Get in", Index: 0}})
	assert.Len(t, tr.options, 1)

	tr.Close()
	assert.False(t, tr.open)
	assert.Empty(t, tr.options)

	assert.Equal(t, "Old Man: Cold night.\nThe wipers squeak.\n(dialogue closed)\n", tr.Text())
}

func TestTranscript_ShowLineClearsOptions(t *testing.T) {
	tr := newTranscript()
	tr.ShowChoices([]interpreter.Option{{Text: "A"}})
	tr.ShowLine("GHOST", "Boo.")
	assert.Empty(t, tr.options)
	assert.Equal(t, "Ghost", tr.entries[0].speaker)
}
