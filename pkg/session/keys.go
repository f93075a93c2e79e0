package session

// KeyKind identifies a discrete key event coming from the rendering layer.
type KeyKind int

const (
	KeyRune      KeyKind = iota // Printable input
	KeyNewline                  // Explicit line break (enter)
	KeyBackspace                // Backspace or delete
	KeySubmit                   // Submit combination (ctrl+s)
	KeyReset                    // New session combination (ctrl+l, ctrl+n)
	KeyClear                    // Clear the input (esc)
	KeyExit                     // Exit combination (ctrl+q, ctrl+c)
)

// KeyEvent is one key press. Runes is only meaningful for KeyRune.
// Ctrl and Meta mark modifier combinations, which never insert text.
type KeyEvent struct {
	Kind  KeyKind
	Runes []rune
	Ctrl  bool
	Meta  bool
}

// Runes builds a printable KeyEvent.
func Runes(s string) KeyEvent {
	return KeyEvent{Kind: KeyRune, Runes: []rune(s)}
}

// Action is what the controller has to do after a key event.
type Action int

const (
	ActionNone Action = iota
	ActionSubmit
	ActionReset
	ActionClear
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionSubmit:
		return "submit"
	case ActionReset:
		return "reset"
	case ActionClear:
		return "clear"
	case ActionExit:
		return "exit"
	default:
		return "none"
	}
}
