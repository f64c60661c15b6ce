package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  command
	}{
		{"", command{kind: cmdAdvance}},
		{"   ", command{kind: cmdAdvance}},
		{"1", command{kind: cmdChoose, choice: 0}},
		{" 3 ", command{kind: cmdChoose, choice: 2}},
		{"/pickup 12", command{kind: cmdPickup, passengerID: 12}},
		{"/P 4", command{kind: cmdPickup, passengerID: 4}},
		{"/leave", command{kind: cmdLeave}},
		{"/dropoff", command{kind: cmdDropoff}},
		{"/d", command{kind: cmdDropoff}},
		{"/drive 250.5", command{kind: cmdDrive, distance: 250.5}},
		{"/wait 2", command{kind: cmdWait, seconds: 2}},
		{"/event storm", command{kind: cmdEvent, key: "storm"}},
		{"/trigger late", command{kind: cmdTrigger, key: "late"}},
		{"/copy", command{kind: cmdCopy}},
		{"/help", command{kind: cmdHelp}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"0", "numbered from 1"},
		{"-2", "numbered from 1"},
		{"hello", "unknown input"},
		{"/", "empty command"},
		{"/pickup", "usage: /pickup"},
		{"/pickup bob", "invalid passenger id"},
		{"/drive", "usage: /drive"},
		{"/drive -5", "invalid distance"},
		{"/wait soon", "invalid duration"},
		{"/event", "usage: /event"},
		{"/trigger a b", "usage: /trigger"},
		{"/honk", "unknown command /honk"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseCommand(tt.input)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
