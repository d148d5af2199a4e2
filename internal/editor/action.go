package editor

import "strings"

// ActionKind identifies a buffer mutation or mode switch.
type ActionKind int

const (
	ActionDelete ActionKind = iota
	ActionDeleteLine
	ActionDeleteEnd
	ActionDeleteChar
	ActionChange
	ActionChangeEnd
	ActionEnterInsert
	ActionAppend
	ActionEnterCommand
)

var actionIDs = map[ActionKind]string{
	ActionDelete:       "delete.motion",
	ActionDeleteLine:   "delete.line",
	ActionDeleteEnd:    "delete.to_eol",
	ActionDeleteChar:   "delete.char",
	ActionChange:       "change.motion",
	ActionChangeEnd:    "change.to_eol",
	ActionEnterInsert:  "mode.insert",
	ActionAppend:       "mode.insert_after",
	ActionEnterCommand: "mode.command",
}

// plainActions maps key strings that need no motion to their action.
var plainActions = map[string]ActionKind{
	"dd": ActionDeleteLine,
	"D":  ActionDeleteEnd,
	"x":  ActionDeleteChar,
	"C":  ActionChangeEnd,
}

// modeActions are zero-argument mode switches. They take no register prefix.
var modeActions = map[string]ActionKind{
	"i": ActionEnterInsert,
	"a": ActionAppend,
	":": ActionEnterCommand,
}

// Action is a resolved mutation. Motion is used by ActionDelete and
// ActionChange; Register names the register deletions are written to.
type Action struct {
	Kind     ActionKind
	Motion   Motion
	Register rune
}

// ID returns the hierarchical identifier of the action, e.g. "delete.line".
func (a Action) ID() string {
	return actionIDs[a.Kind]
}

// Edit reports what applying an Action did.
type Edit struct {
	// Applied is false for a no-op such as deleting an empty range.
	Applied bool
	// Text is what was written to the register.
	Text string
	// At is where the removed text started; for a same-row delete,
	// inserting Text at At restores the line.
	At Position
	// Linewise is set when whole lines were removed.
	Linewise bool
	// Next is the mode the machine enters afterwards.
	Next Mode
}

// ParseAction resolves an accumulated key string into an Action. Deletes and
// changes may be prefixed by `"r` to target register r.
func ParseAction(keys string) (Action, bool) {
	if kind, ok := modeActions[keys]; ok {
		return Action{Kind: kind, Register: DefaultRegister}, true
	}

	act := Action{Register: DefaultRegister}
	if strings.HasPrefix(keys, `"`) {
		runes := []rune(keys)
		if len(runes) < 3 || !IsValidRegister(runes[1]) {
			return Action{}, false
		}
		act.Register = runes[1]
		keys = string(runes[2:])
	}

	// "dd" is not d followed by a motion, so it is checked first.
	if kind, ok := plainActions[keys]; ok {
		act.Kind = kind
		return act, true
	}

	if len(keys) < 2 {
		return Action{}, false
	}
	switch keys[0] {
	case 'd':
		act.Kind = ActionDelete
	case 'c':
		act.Kind = ActionChange
	default:
		return Action{}, false
	}
	m, ok := ParseMotion(keys[1:])
	if !ok {
		return Action{}, false
	}
	act.Motion = m
	return act, true
}

// Apply performs the action on b, writing any removed text to b's register.
func (a Action) Apply(b *Buffer) Edit {
	switch a.Kind {
	case ActionDelete:
		return b.deleteMotion(a.Motion, a.Register)
	case ActionDeleteLine:
		return b.deleteLine(a.Register)
	case ActionDeleteEnd:
		return b.deleteToEnd(a.Register)
	case ActionDeleteChar:
		return b.deleteChar(a.Register)
	case ActionChange:
		e := b.deleteMotion(a.Motion, a.Register)
		if e.Applied && !e.Linewise {
			b.cursor = e.At
		}
		e.Next = ModeInsert
		return e
	case ActionChangeEnd:
		e := b.deleteToEnd(a.Register)
		if e.Applied {
			b.cursor = e.At
		}
		e.Next = ModeInsert
		return e
	case ActionEnterInsert:
		return Edit{Applied: true, At: b.cursor, Next: ModeInsert}
	case ActionAppend:
		if b.cursor.Col < runeLen(b.lines[b.cursor.Row]) {
			b.cursor.Col++
		}
		return Edit{Applied: true, At: b.cursor, Next: ModeInsert}
	case ActionEnterCommand:
		return Edit{Applied: true, At: b.cursor, Next: ModeCommand}
	}
	return Edit{}
}
