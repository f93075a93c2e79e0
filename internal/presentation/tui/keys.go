package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/schat/pkg/session"
)

// HelpText lists the key bindings shown under the input box.
const HelpText = "| ctrl+s - send | ctrl+q - quit | ctrl+l - new | esc - clear |"

// KeyEvent translates a terminal key press into a session key event.
// The second result is false for keys the session does not handle.
func KeyEvent(msg tea.KeyMsg) (session.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyCtrlS:
		return session.KeyEvent{Kind: session.KeySubmit}, true
	case tea.KeyEnter:
		return session.KeyEvent{Kind: session.KeyNewline}, true
	case tea.KeyCtrlL, tea.KeyCtrlN:
		return session.KeyEvent{Kind: session.KeyReset}, true
	case tea.KeyEsc:
		return session.KeyEvent{Kind: session.KeyClear}, true
	case tea.KeyCtrlQ, tea.KeyCtrlC:
		return session.KeyEvent{Kind: session.KeyExit}, true
	case tea.KeyBackspace, tea.KeyDelete:
		return session.KeyEvent{Kind: session.KeyBackspace}, true
	case tea.KeySpace:
		return session.KeyEvent{Kind: session.KeyRune, Runes: []rune{' '}, Meta: msg.Alt}, true
	case tea.KeyTab:
		return session.KeyEvent{Kind: session.KeyRune, Runes: []rune{'\t'}}, true
	case tea.KeyRunes:
		return session.KeyEvent{Kind: session.KeyRune, Runes: msg.Runes, Meta: msg.Alt}, true
	}
	return session.KeyEvent{}, false
}
