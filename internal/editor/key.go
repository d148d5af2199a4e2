package editor

import (
	"strings"
	"unicode/utf8"
)

// KeyCode distinguishes printable keys from the special keys the modes react to.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Key is one resolved keystroke. Rune is set only when Code is KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey returns the Key for a printable rune.
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Keys converts a string into one KeyRune per rune.
func Keys(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, RuneKey(r))
	}
	return keys
}

var namedKeys = map[string]KeyCode{
	"<esc>":   KeyEscape,
	"<enter>": KeyEnter,
	"<bs>":    KeyBackspace,
	"<tab>":   KeyTab,
	"<left>":  KeyLeft,
	"<right>": KeyRight,
	"<up>":    KeyUp,
	"<down>":  KeyDown,
}

// ParseKeys is like Keys but also accepts the bracketed names String
// produces, so "ihi<esc>" is four keys. Unrecognized brackets are literal.
func ParseKeys(s string) []Key {
	var keys []Key
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 0 {
				if code, ok := namedKeys[s[:end+1]]; ok {
					keys = append(keys, Key{Code: code})
					s = s[end+1:]
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		keys = append(keys, RuneKey(r))
		s = s[size:]
	}
	return keys
}

// String returns the rune for printable keys and a bracketed name otherwise.
func (k Key) String() string {
	switch k.Code {
	case KeyRune:
		return string(k.Rune)
	case KeyEscape:
		return "<esc>"
	case KeyEnter:
		return "<enter>"
	case KeyBackspace:
		return "<bs>"
	case KeyTab:
		return "<tab>"
	case KeyLeft:
		return "<left>"
	case KeyRight:
		return "<right>"
	case KeyUp:
		return "<up>"
	case KeyDown:
		return "<down>"
	default:
		return "<unknown>"
	}
}

// arrowMotionKeys maps arrow keys to their Normal mode equivalents.
var arrowMotionKeys = map[KeyCode]rune{
	KeyLeft:  'h',
	KeyRight: 'l',
	KeyUp:    'k',
	KeyDown:  'j',
}
