package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultIdleTimeout is how long a partial Normal mode key sequence survives
// without another key.
const DefaultIdleTimeout = time.Second

// ErrUnknownCommand is returned by a CommandHandler for commands it does not
// recognize.
var ErrUnknownCommand = errors.New("not an editor command")

// Storage persists a buffer for ":w" and tracks unsaved changes for ":q".
type Storage interface {
	// Save writes b and returns a short summary for the status line. force
	// overrides checks such as the file having changed on disk.
	Save(b *Buffer, force bool) (string, error)
	// Modified reports whether b differs from what was last saved.
	Modified(b *Buffer) bool
}

// CommandHandler runs ":" commands the Machine does not implement itself.
type CommandHandler interface {
	// HandleCommand runs cmd against b. It returns ErrUnknownCommand when cmd
	// is not recognized.
	HandleCommand(b *Buffer, cmd string) (string, error)
}

// Status is a message produced by a command for the status line.
type Status struct {
	Text  string
	Error bool
}

// Config configures a Machine. Zero values select defaults.
type Config struct {
	Clock       Clock
	IdleTimeout time.Duration
	Storage     Storage
	Commands    CommandHandler
}

// Machine routes keys to the handler of the current mode. Normal mode
// accumulates keys until they resolve to a motion or an action; Insert mode
// edits text; Command mode edits and runs a ":" command line.
type Machine struct {
	mode        Mode
	pending     string
	lastKey     time.Time
	cmdline     string
	status      Status
	clock       Clock
	idleTimeout time.Duration
	storage     Storage
	commands    CommandHandler
}

// NewMachine creates a Machine in Normal mode.
func NewMachine(cfg Config) *Machine {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Machine{
		mode:        ModeNormal,
		clock:       cfg.Clock,
		idleTimeout: cfg.IdleTimeout,
		storage:     cfg.Storage,
		commands:    cfg.Commands,
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Pending returns the Normal mode keys accumulated so far.
func (m *Machine) Pending() string { return m.pending }

// CommandLine returns the command being typed in Command mode.
func (m *Machine) CommandLine() string { return m.cmdline }

// Status returns the message left by the last command.
func (m *Machine) Status() Status { return m.status }

// ClearStatus discards the current status message.
func (m *Machine) ClearStatus() { m.status = Status{} }

// HandleKey processes one key against b and reports whether it changed
// anything. Keys that do not (yet) resolve are not errors.
func (m *Machine) HandleKey(b *Buffer, k Key) bool {
	var next Mode
	var changed bool
	switch m.mode {
	case ModeNormal:
		next, changed = m.handleNormal(b, k)
	case ModeInsert:
		next, changed = m.handleInsert(b, k)
	case ModeCommand:
		next, changed = m.handleCommand(b, k)
	default:
		return false
	}
	m.mode = next
	return changed
}

func (m *Machine) handleNormal(b *Buffer, k Key) (Mode, bool) {
	now := m.clock.Now()
	if m.pending != "" && now.Sub(m.lastKey) > m.idleTimeout {
		m.pending = ""
	}
	m.lastKey = now

	switch k.Code {
	case KeyRune:
	case KeyEscape:
		hadPending := m.pending != ""
		m.pending = ""
		return ModeNormal, hadPending
	default:
		r, ok := arrowMotionKeys[k.Code]
		if !ok {
			return ModeNormal, false
		}
		k = RuneKey(r)
	}

	m.pending += string(k.Rune)

	if motion, ok := ParseMotion(m.pending); ok {
		m.pending = ""
		to := motion.Execute(b)
		moved := to != b.cursor
		b.cursor = to
		return ModeNormal, moved
	}

	if action, ok := ParseAction(m.pending); ok {
		m.pending = ""
		edit := action.Apply(b)
		if edit.Next == ModeCommand {
			m.cmdline = ""
			m.status = Status{}
		}
		return edit.Next, edit.Applied || edit.Next != ModeNormal
	}

	return ModeNormal, false
}

func (m *Machine) handleInsert(b *Buffer, k Key) (Mode, bool) {
	switch k.Code {
	case KeyEscape:
		if b.cursor.Col > 0 {
			b.cursor.Col--
		}
		b.clampCol()
		return ModeNormal, true
	case KeyEnter:
		b.splitLine()
		return ModeInsert, true
	case KeyBackspace:
		return ModeInsert, b.backspace()
	case KeyTab:
		b.insertText("\t")
		return ModeInsert, true
	case KeyRune:
		b.insertText(string(k.Rune))
		return ModeInsert, true
	default:
		return ModeInsert, b.moveInsert(k.Code)
	}
}

func (m *Machine) handleCommand(b *Buffer, k Key) (Mode, bool) {
	switch k.Code {
	case KeyEscape:
		m.cmdline = ""
		return ModeNormal, true
	case KeyBackspace:
		if m.cmdline == "" {
			return ModeNormal, true
		}
		r := []rune(m.cmdline)
		m.cmdline = string(r[:len(r)-1])
		return ModeCommand, true
	case KeyEnter:
		cmd := strings.TrimSpace(m.cmdline)
		m.cmdline = ""
		return m.run(b, cmd), true
	case KeyRune:
		m.cmdline += string(k.Rune)
		return ModeCommand, true
	case KeyTab:
		m.cmdline += "\t"
		return ModeCommand, true
	default:
		return ModeCommand, false
	}
}

// run executes a command line and returns the mode to continue in.
func (m *Machine) run(b *Buffer, cmd string) Mode {
	switch cmd {
	case "":
		return ModeNormal
	case "q":
		if m.storage != nil && m.storage.Modified(b) {
			m.fail("No write since last change (add ! to override)")
			return ModeNormal
		}
		return ModeExit
	case "q!":
		return ModeExit
	case "w":
		m.save(b, false)
		return ModeNormal
	case "wq", "x", "wq!", "x!":
		if m.save(b, strings.HasSuffix(cmd, "!")) {
			return ModeExit
		}
		return ModeNormal
	}

	if m.commands != nil {
		msg, err := m.commands.HandleCommand(b, cmd)
		switch {
		case err == nil:
			m.status = Status{Text: msg}
			return ModeNormal
		case !errors.Is(err, ErrUnknownCommand):
			m.fail(err.Error())
			return ModeNormal
		}
	}
	m.fail(fmt.Sprintf("Not an editor command: %s", cmd))
	return ModeNormal
}

// save writes b through the configured Storage and reports success.
func (m *Machine) save(b *Buffer, force bool) bool {
	if m.storage == nil {
		m.fail("No file name")
		return false
	}
	msg, err := m.storage.Save(b, force)
	if err != nil {
		m.fail(err.Error())
		return false
	}
	m.status = Status{Text: msg}
	return true
}

func (m *Machine) fail(msg string) {
	m.status = Status{Text: msg, Error: true}
}
