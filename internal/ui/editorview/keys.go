package editorview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/modal/internal/editor"
)

// toEditorKeys converts a terminal key event into editor keys. Pasted text
// arrives as one message with many runes. Keys the editor has no use for
// (function keys, alt chords) yield nothing.
func toEditorKeys(msg tea.KeyMsg) []editor.Key {
	if msg.Alt {
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]editor.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, runeKey(r))
		}
		return keys
	case tea.KeySpace:
		return []editor.Key{editor.RuneKey(' ')}
	case tea.KeyEsc:
		return []editor.Key{{Code: editor.KeyEscape}}
	case tea.KeyEnter:
		return []editor.Key{{Code: editor.KeyEnter}}
	case tea.KeyBackspace:
		return []editor.Key{{Code: editor.KeyBackspace}}
	case tea.KeyTab:
		return []editor.Key{{Code: editor.KeyTab}}
	case tea.KeyLeft:
		return []editor.Key{{Code: editor.KeyLeft}}
	case tea.KeyRight:
		return []editor.Key{{Code: editor.KeyRight}}
	case tea.KeyUp:
		return []editor.Key{{Code: editor.KeyUp}}
	case tea.KeyDown:
		return []editor.Key{{Code: editor.KeyDown}}
	default:
		return nil
	}
}

// runeKey maps pasted control characters to the keys they stand for.
func runeKey(r rune) editor.Key {
	switch r {
	case '\r', '\n':
		return editor.Key{Code: editor.KeyEnter}
	case '\t':
		return editor.Key{Code: editor.KeyTab}
	default:
		return editor.RuneKey(r)
	}
}
