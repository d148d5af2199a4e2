package editor

// Mode is the editing mode of a Machine.
type Mode int

const (
	// ModeNormal resolves keys into motions and actions.
	ModeNormal Mode = iota
	// ModeInsert types keys into the buffer.
	ModeInsert
	// ModeCommand edits and runs a ":" command line.
	ModeCommand
	// ModeExit is terminal; it is reached by ":q" and ":wq".
	ModeExit
)

// String returns the display name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	case ModeExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}
