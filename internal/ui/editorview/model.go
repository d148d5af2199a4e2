// Package editorview is the Bubble Tea front end: it feeds terminal keys to
// the current document's editing machine and draws the buffer, a status bar
// and a message line.
package editorview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/modal/internal/config"
	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/keys"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/pubsub"
	"github.com/zjrosen/modal/internal/ui/help"
	"github.com/zjrosen/modal/internal/ui/logview"
	"github.com/zjrosen/modal/internal/workspace"
)

const statusKey = "status"

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

type statusEntry struct {
	text string
	kind statusKind
}

// statusExpiredMsg prompts a redraw once a status message times out.
type statusExpiredMsg struct{}

// scroll is the viewport origin of one document.
type scroll struct {
	top  int
	left int
}

// Options configures a Model.
type Options struct {
	UI         config.UIConfig
	ScrollOff  int
	ConfigPath string
	// FileEvents carries watcher notifications; nil disables them.
	FileEvents *pubsub.Broker[string]
	// LogLines feeds ":messages"; nil leaves the view empty.
	LogLines *pubsub.Listener[string]
}

// Model is the editor screen.
type Model struct {
	ws        *workspace.Workspace
	cmds      *commands
	scrollOff int

	width  int
	height int

	scrolls map[uuid.UUID]*scroll
	status  *cache.Cache

	help help.Model
	logs logview.Model

	fileEvents *pubsub.Listener[string]
	logLines   *pubsub.Listener[string]

	quitting bool
}

// New creates the editor screen for ws. The workspace must have a current
// document. Subscriptions end when ctx is done.
func New(ctx context.Context, ws *workspace.Workspace, opts Options) Model {
	if opts.UI.StatusTimeout <= 0 {
		opts.UI.StatusTimeout = config.Defaults().UI.StatusTimeout
	}
	cmds := &commands{ui: opts.UI, configPath: opts.ConfigPath}
	ws.SetCommands(cmds)

	m := Model{
		ws:        ws,
		cmds:      cmds,
		scrollOff: max(opts.ScrollOff, 0),
		scrolls:   make(map[uuid.UUID]*scroll),
		// Expired entries are dropped lazily by Get, so no janitor is needed.
		status:   cache.New(opts.UI.StatusTimeout, 0),
		help:     help.New(opts.UI.MarkdownStyle),
		logs:     logview.New(logview.DefaultCapacity),
		logLines: opts.LogLines,
	}
	if opts.FileEvents != nil {
		m.fileEvents = pubsub.NewListener(ctx, opts.FileEvents)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.fileEvents != nil {
		cmds = append(cmds, m.fileEvents.Listen())
	}
	if m.logLines != nil {
		cmds = append(cmds, m.logLines.Listen())
	}
	return tea.Batch(cmds...)
}

// Workspace returns the workspace being edited.
func (m Model) Workspace() *workspace.Workspace {
	return m.ws
}

// UI returns the current display settings, including ":set" changes.
func (m Model) UI() config.UIConfig {
	return m.cmds.ui
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.logs.SetSize(msg.Width, msg.Height)
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pubsub.Event[string]:
		return m.handleEvent(msg)

	case statusExpiredMsg, help.CloseMsg, logview.CloseMsg:
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.App.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.help.Visible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.App.Suspend):
		return m, tea.Suspend
	case key.Matches(msg, keys.App.Redraw):
		m.status.Delete(statusKey)
		return m, nil
	}

	var cmds []tea.Cmd
	for _, k := range toEditorKeys(msg) {
		doc := m.ws.Current()
		if doc == nil {
			break
		}
		doc.Machine.HandleKey(doc.Buffer, k)

		if st := doc.Machine.Status(); st.Text != "" {
			kind := statusInfo
			if st.Error {
				kind = statusError
			}
			cmds = append(cmds, m.setStatus(st.Text, kind))
			doc.Machine.ClearStatus()
		}

		switch m.cmds.takeRequest() {
		case showHelp:
			m.help.Show()
		case showMessages:
			m.logs.Show()
		}

		if doc.Machine.Mode() == editor.ModeExit {
			log.Info(log.CatEditor, "Exit requested", "path", doc.Path)
			m.quitting = true
			return m, tea.Quit
		}
	}
	m.scrollToCursor()
	return m, tea.Batch(cmds...)
}

func (m Model) handleEvent(ev pubsub.Event[string]) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case pubsub.LogLine:
		m.logs.Append(ev.Payload)
		return m, m.logLines.Listen()

	case pubsub.FileChanged:
		var cmd tea.Cmd
		if doc := m.ws.FileChanged(ev.Payload); doc != nil {
			cmd = m.setStatus(fmt.Sprintf("%q changed; :e! to reload", filepath.Base(doc.Path)), statusWarning)
		}
		return m, tea.Batch(cmd, m.fileEvents.Listen())

	case pubsub.FileRemoved:
		var cmd tea.Cmd
		if doc := m.ws.FileRemoved(ev.Payload); doc != nil && doc.Removed() {
			cmd = m.setStatus(fmt.Sprintf("%q deleted on disk", filepath.Base(doc.Path)), statusWarning)
		} else if doc != nil {
			cmd = m.setStatus(fmt.Sprintf("%q changed; :e! to reload", filepath.Base(doc.Path)), statusWarning)
		}
		return m, tea.Batch(cmd, m.fileEvents.Listen())
	}
	return m, nil
}

// setStatus shows text until the status timeout passes.
func (m Model) setStatus(text string, kind statusKind) tea.Cmd {
	m.status.Set(statusKey, statusEntry{text: text, kind: kind}, cache.DefaultExpiration)
	timeout := m.cmds.ui.StatusTimeout
	return tea.Tick(timeout+10*time.Millisecond, func(time.Time) tea.Msg { return statusExpiredMsg{} })
}

func (m Model) currentStatus() (statusEntry, bool) {
	v, ok := m.status.Get(statusKey)
	if !ok {
		return statusEntry{}, false
	}
	st, ok := v.(statusEntry)
	return st, ok
}

func (m Model) textRows() int {
	return max(m.height-2, 1)
}

func (m Model) scrollFor(doc *workspace.Document) *scroll {
	sc, ok := m.scrolls[doc.ID]
	if !ok {
		sc = &scroll{}
		m.scrolls[doc.ID] = sc
	}
	return sc
}

// scrollToCursor moves the current document's viewport so the cursor stays
// visible with scrollOff rows of context.
func (m Model) scrollToCursor() {
	doc := m.ws.Current()
	if doc == nil || m.height == 0 {
		return
	}
	sc := m.scrollFor(doc)
	buf := doc.Buffer
	cur := buf.Cursor()

	rows := m.textRows()
	off := min(m.scrollOff, (rows-1)/2)
	if cur.Row < sc.top+off {
		sc.top = cur.Row - off
	}
	if cur.Row > sc.top+rows-1-off {
		sc.top = cur.Row - (rows - 1 - off)
	}
	sc.top = max(0, min(sc.top, buf.LineCount()-1))

	width := max(m.width-gutterWidth(buf.LineCount(), m.cmds.ui.LineNumbers), 1)
	line := buf.Line(cur.Row)
	start := cellOf(line, cur.Col)
	end := start + 1
	if r := []rune(line); cur.Col < len(r) {
		end = start + runeCells(r[cur.Col], start)
	}
	if start < sc.left {
		sc.left = start
	}
	if end > sc.left+width {
		sc.left = end - width
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}
	doc := m.ws.Current()
	if doc == nil {
		return ""
	}

	lines := m.renderText(doc, m.textRows())
	lines = append(lines, m.renderStatusBar(doc), m.renderBottomLine(doc))
	screen := strings.Join(lines, "\n")

	screen = m.help.Overlay(screen)
	return m.logs.Overlay(screen)
}
