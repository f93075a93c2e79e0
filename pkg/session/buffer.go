package session

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// InputBuffer holds the prompt being composed.
// It is a single string; lines are separated by '\n'.
// InputBuffer is not safe for concurrent use; the Controller guards it.
type InputBuffer struct {
	value string
}

// NewInputBuffer returns an empty buffer.
func NewInputBuffer() *InputBuffer {
	return &InputBuffer{}
}

// Insert appends a printable rune. Control runes other than tab are dropped.
func (b *InputBuffer) Insert(r rune) {
	if r == '\n' {
		b.Newline()
		return
	}
	if unicode.IsControl(r) && r != '\t' {
		return
	}
	b.value += string(r)
}

// InsertString appends s with control characters stripped (pastes included).
func (b *InputBuffer) InsertString(s string) {
	b.value += StripControl(s)
}

// Newline starts a new line.
func (b *InputBuffer) Newline() {
	b.value += "\n"
}

// Backspace removes the last rune, which may be a line divider.
// It is a no-op on an empty buffer.
func (b *InputBuffer) Backspace() {
	if b.value == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.value)
	b.value = b.value[:len(b.value)-size]
}

// Lines returns the buffer split on line dividers. It always has at least one element.
func (b *InputBuffer) Lines() []string {
	return strings.Split(b.value, "\n")
}

// Value returns the serialized buffer.
func (b *InputBuffer) Value() string {
	return b.value
}

// Len returns the number of runes in the buffer.
func (b *InputBuffer) Len() int {
	return utf8.RuneCountInString(b.value)
}

// Clear empties the buffer.
func (b *InputBuffer) Clear() {
	b.value = ""
}

// Apply feeds one key event to the buffer. Editing keys mutate it and
// return ActionNone; trigger keys leave it untouched and return the action
// the caller must perform.
func (b *InputBuffer) Apply(ev KeyEvent) Action {
	switch ev.Kind {
	case KeyRune:
		if ev.Ctrl || ev.Meta {
			return ActionNone
		}
		b.InsertString(string(ev.Runes))
	case KeyNewline:
		b.Newline()
	case KeyBackspace:
		b.Backspace()
	case KeySubmit:
		return ActionSubmit
	case KeyReset:
		return ActionReset
	case KeyClear:
		return ActionClear
	case KeyExit:
		return ActionExit
	}
	return ActionNone
}
