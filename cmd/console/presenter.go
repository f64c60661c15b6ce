package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/ride-engine/pkg/interpreter"
)

type entryKind int

const (
	entryLine entryKind = iota
	entryNotice
)

type entry struct {
	kind    entryKind
	speaker string
	text    string
}

// transcript is the console's Presenter. It records everything the
// interpreter shows so the UI can render it and the player can copy it.
type transcript struct {
	open    bool
	entries []entry
	options []interpreter.Option
	title   cases.Caser
}

var _ interpreter.Presenter = (*transcript)(nil)

func newTranscript() *transcript {
	return &transcript{title: cases.Title(language.English)}
}

func (t *transcript) Open() {
	t.open = true
	t.options = nil
}

func (t *transcript) Close() {
	t.open = false
	t.options = nil
	t.notice("(dialogue closed)")
}

func (t *transcript) ShowLine(speaker, text string) {
	t.options = nil
	t.entries = append(t.entries, entry{kind: entryLine, speaker: t.speakerLabel(speaker), text: text})
}

func (t *transcript) ShowChoices(options []interpreter.Option) {
	t.options = options
}

func (t *transcript) notice(text string) {
	t.entries = append(t.entries, entry{kind: entryNotice, text: text})
}

// speakerLabel title-cases authored speaker ids such as "old_man".
func (t *transcript) speakerLabel(speaker string) string {
	speaker = strings.TrimSpace(strings.ReplaceAll(speaker, "_", " "))
	if speaker == "" {
		return ""
	}
	return t.title.String(speaker)
}

// Text renders the transcript as plain text for the clipboard.
func (t *transcript) Text() string {
	var b strings.Builder
	for _, e := range t.entries {
		switch {
		case e.kind == entryNotice:
			fmt.Fprintf(&b, "%s\n", e.text)
		case e.speaker != "":
			fmt.Fprintf(&b, "%s: %s\n", e.speaker, e.text)
		default:
			fmt.Fprintf(&b, "%s\n", e.text)
		}
	}
	return b.String()
}
