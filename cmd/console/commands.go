package main

import (
	"fmt"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdAdvance commandKind = iota
	cmdChoose
	cmdPickup
	cmdLeave
	cmdDropoff
	cmdDrive
	cmdEvent
	cmdTrigger
	cmdWait
	cmdCopy
	cmdHelp
)

type command struct {
	kind        commandKind
	passengerID int
	choice      int
	distance    float64
	seconds     float64
	key         string
}

const helpText = `Commands:
• Enter            advance the current line
• 1, 2, ...        pick a choice
• /pickup <id>     drive into a passenger's pickup zone
• /leave           drive out of the pickup zone
• /dropoff         reach the current passenger's destination
• /drive <meters>  add distance to the current ride
• /wait <seconds>  let time pass
• /event <key>     raise a game event
• /trigger <node>  open a ride node directly
• /copy            copy the transcript to the clipboard
• Ctrl+C           quit`

// parseCommand turns a line typed into the console into a command.
func parseCommand(input string) (command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return command{kind: cmdAdvance}, nil
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 {
			return command{}, fmt.Errorf("choices are numbered from 1")
		}
		return command{kind: cmdChoose, choice: n - 1}, nil
	}
	if !strings.HasPrefix(input, "/") {
		return command{}, fmt.Errorf("unknown input %q, type /help", input)
	}

	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command, type /help")
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "pickup", "p":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /pickup <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid passenger id %q", args[0])
		}
		return command{kind: cmdPickup, passengerID: id}, nil
	case "leave":
		return command{kind: cmdLeave}, nil
	case "dropoff", "d":
		return command{kind: cmdDropoff}, nil
	case "drive":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /drive <meters>")
		}
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil || d <= 0 {
			return command{}, fmt.Errorf("invalid distance %q", args[0])
		}
		return command{kind: cmdDrive, distance: d}, nil
	case "wait":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /wait <seconds>")
		}
		s, err := strconv.ParseFloat(args[0], 64)
		if err != nil || s <= 0 {
			return command{}, fmt.Errorf("invalid duration %q", args[0])
		}
		return command{kind: cmdWait, seconds: s}, nil
	case "event":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /event <key>")
		}
		return command{kind: cmdEvent, key: args[0]}, nil
	case "trigger":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /trigger <node>")
		}
		return command{kind: cmdTrigger, key: args[0]}, nil
	case "copy":
		return command{kind: cmdCopy}, nil
	case "help", "h":
		return command{kind: cmdHelp}, nil
	}
	return command{}, fmt.Errorf("unknown command /%s, type /help", name)
}
