package editorview

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/modal/internal/config"
	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/pubsub"
	"github.com/zjrosen/modal/internal/workspace"
)

func testUI() config.UIConfig {
	ui := config.Defaults().UI
	ui.MarkdownStyle = "notty"
	return ui
}

func newTestModel(t *testing.T, content string, opts Options) (Model, *workspace.Document) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ws := workspace.New(workspace.Options{})
	doc, err := ws.Open(context.Background(), path)
	require.NoError(t, err)

	if opts.UI == (config.UIConfig{}) {
		opts.UI = testUI()
	}
	m := New(context.Background(), ws, opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	return updated.(Model), doc
}

// press sends keys written in ParseKeys notation.
func press(m Model, keys string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	var updated tea.Model = m
	for _, k := range editor.ParseKeys(keys) {
		var msg tea.KeyMsg
		switch k.Code {
		case editor.KeyEscape:
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case editor.KeyEnter:
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case editor.KeyBackspace:
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k.Rune}}
		}
		updated, cmd = updated.Update(msg)
	}
	return updated.(Model), cmd
}

func plainView(m Model) []string {
	return strings.Split(ansi.Strip(m.View()), "\n")
}

func TestView_Layout(t *testing.T) {
	m, _ := newTestModel(t, "hello world\nsecond\n", Options{})

	rows := plainView(m)
	require.Len(t, rows, 10)
	require.Equal(t, "  1 hello world", rows[0])
	require.Equal(t, "  2 second", rows[1])
	require.Equal(t, "~", rows[2])
	require.Contains(t, rows[8], "NORMAL")
	require.Contains(t, rows[8], "test.txt")
	require.True(t, strings.HasSuffix(rows[8], "1:1 "))
	require.Equal(t, "", rows[9])
}

func TestUpdate_EditAndDirtyMarker(t *testing.T) {
	m, doc := newTestModel(t, "hello world\n", Options{})

	m, _ = press(m, "dw")
	require.Equal(t, []string{"world"}, doc.Buffer.Lines())
	require.Contains(t, plainView(m)[8], "[+]")
}

func TestUpdate_PendingKeysShown(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, `"a`)
	require.Contains(t, plainView(m)[8], `"a`)
}

func TestUpdate_InsertModeBadge(t *testing.T) {
	m, doc := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, "iX")
	require.Contains(t, plainView(m)[8], "INSERT")
	m, _ = press(m, "<esc>")
	require.Contains(t, plainView(m)[8], "NORMAL")
	require.Equal(t, []string{"Xabc"}, doc.Buffer.Lines())
}

func TestUpdate_CommandLineAndStatus(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, ":bogus")
	require.Equal(t, ":bogus", strings.TrimSpace(plainView(m)[9]))
	require.Contains(t, plainView(m)[8], "COMMAND")

	m, cmd := press(m, "<enter>")
	require.NotNil(t, cmd, "status messages schedule an expiry tick")
	require.Equal(t, "Not an editor command: bogus", plainView(m)[9])

	m.status.Delete(statusKey)
	require.Equal(t, "", plainView(m)[9])
}

func TestUpdate_WriteQuit(t *testing.T) {
	m, doc := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, "x:wq<enter>")
	require.True(t, m.quitting)
	require.Equal(t, "", m.View())

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	require.Equal(t, "bc\n", string(data))
}

func TestUpdate_QuitRefusedWhenDirty(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, "x:q<enter>")
	require.False(t, m.quitting)
	require.Contains(t, plainView(m)[9], "No write since last change")
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, updated.(Model).quitting)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_SetNumber(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})

	m, _ = press(m, ":set nonumber<enter>")
	require.False(t, m.UI().LineNumbers)
	require.Equal(t, "abc", plainView(m)[0])

	m, _ = press(m, ":set nu<enter>")
	require.True(t, m.UI().LineNumbers)
	require.Equal(t, "  1 abc", plainView(m)[0])

	m, _ = press(m, ":set bogus<enter>")
	require.Equal(t, "unknown option: bogus", plainView(m)[9])
}

func TestUpdate_MkconfigWritesUISection(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("editor:\n  scroll_off: 5\n"), 0o644))
	m, _ := newTestModel(t, "abc\n", Options{ConfigPath: cfgPath})

	m, _ = press(m, ":set nonu<enter>:mkconfig<enter>")
	require.Contains(t, plainView(m)[9], "UI settings written")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "scroll_off: 5")
	require.Contains(t, string(data), "line_numbers: false")
}

func TestUpdate_MkconfigWithoutFile(t *testing.T) {
	m, _ := newTestModel(t, "abc\n", Options{})
	m, _ = press(m, ":mkconfig<enter>")
	require.Equal(t, "no config file in use", plainView(m)[9])
}

func TestUpdate_HelpOverlay(t *testing.T) {
	m, doc := newTestModel(t, "abc\n", Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	m, _ = press(m, ":help<enter>")
	require.True(t, m.help.Visible())
	require.Contains(t, ansi.Strip(m.View()), "Normal mode")

	// keys go to the overlay, not the buffer
	m, _ = press(m, "x")
	require.Equal(t, []string{"abc"}, doc.Buffer.Lines())

	m, _ = press(m, "<esc>")
	require.False(t, m.help.Visible())
}

func TestUpdate_MessagesOverlay(t *testing.T) {
	broker := pubsub.NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m, _ := newTestModel(t, "abc\n", Options{LogLines: pubsub.NewListener(ctx, broker)})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	updated, cmd := m.Update(pubsub.Event[string]{Type: pubsub.LogLine, Payload: "2025-01-01T00:00:00.000 [INFO] [file] Opened file"})
	m = updated.(Model)
	require.NotNil(t, cmd, "listener must be re-armed")

	m, _ = press(m, ":messages<enter>")
	require.True(t, m.logs.Visible())
	require.Contains(t, ansi.Strip(m.View()), "Opened file")
}

func TestUpdate_FileChangedEvent(t *testing.T) {
	broker := pubsub.NewBroker[string]()
	m, doc := newTestModel(t, "abc\n", Options{FileEvents: broker})

	require.NoError(t, os.WriteFile(doc.Path, []byte("changed\n"), 0o644))
	updated, cmd := m.Update(pubsub.Event[string]{Type: pubsub.FileChanged, Payload: doc.Path})
	m = updated.(Model)
	require.NotNil(t, cmd)
	require.True(t, doc.Stale())
	require.Contains(t, plainView(m)[8], "[changed on disk]")
	require.Equal(t, `"test.txt" changed; :e! to reload`, plainView(m)[9])

	m, _ = press(m, ":e!<enter>")
	require.Equal(t, []string{"changed"}, doc.Buffer.Lines())
	require.NotContains(t, plainView(m)[8], "[changed on disk]")
}

func TestUpdate_FileRemovedEvent(t *testing.T) {
	broker := pubsub.NewBroker[string]()
	m, doc := newTestModel(t, "abc\n", Options{FileEvents: broker})

	require.NoError(t, os.Remove(doc.Path))
	updated, _ := m.Update(pubsub.Event[string]{Type: pubsub.FileRemoved, Payload: doc.Path})
	m = updated.(Model)
	require.Contains(t, plainView(m)[8], "[deleted on disk]")
}

func TestScroll_FollowsCursor(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("line\n")
	}
	m, doc := newTestModel(t, sb.String(), Options{ScrollOff: 2})

	// 8 text rows; moving to row 10 keeps two rows below the cursor
	m, _ = press(m, strings.Repeat("j", 10))
	require.Equal(t, 10, doc.Buffer.Cursor().Row)
	sc := m.scrollFor(doc)
	require.Equal(t, 10-(8-1-2), sc.top)
	require.Equal(t, " 11 line", plainView(m)[10-sc.top])

	m, _ = press(m, strings.Repeat("k", 10))
	require.Equal(t, 0, m.scrollFor(doc).top)
}

func TestScroll_Horizontal(t *testing.T) {
	long := strings.Repeat("a", 30) + "XYZ"
	m, doc := newTestModel(t, long+"\n", Options{})

	m, _ = press(m, "$")
	require.Equal(t, 32, doc.Buffer.Cursor().Col)
	// 40 columns minus a 4 column gutter fits the whole line
	require.Equal(t, 0, m.scrollFor(doc).left)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	m = updated.(Model)
	require.Equal(t, 33-16, m.scrollFor(doc).left)
	require.True(t, strings.HasSuffix(plainView(m)[0], "XYZ"))
}

func TestTeatest_EditAndSave(t *testing.T) {
	m, doc := newTestModel(t, "hello world\n", Options{})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(60, 12))
	tm.Type("dw")
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("[+]"))
	}, teatest.WithDuration(2*time.Second))

	tm.Type(":wq")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	require.True(t, final.quitting)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	require.Equal(t, "world\n", string(data))
}
