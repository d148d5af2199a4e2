package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/modal/internal/editor"
)

// runCommand types ":cmd<enter>" into the current document.
func runCommand(ws *Workspace, cmd string) editor.Status {
	doc := ws.Current()
	typeKeys(ws, ":"+cmd+"<enter>")
	return doc.Machine.Status()
}

type uiCommands struct{ seen []string }

func (u *uiCommands) HandleCommand(_ *editor.Buffer, cmd string) (string, error) {
	if cmd == "set number" {
		u.seen = append(u.seen, cmd)
		return "", nil
	}
	return "", editor.ErrUnknownCommand
}

func TestCommand_Write(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "abc\n")
	ws := New(Options{})
	_, err := ws.Open(context.Background(), path)
	require.NoError(t, err)

	typeKeys(ws, "x")
	st := runCommand(ws, "w")
	require.False(t, st.Error, st.Text)
	require.Contains(t, st.Text, "1L, 3B written (+1 -1)")
	require.Equal(t, "bc\n", readFileT(t, path))
}

func TestCommand_WriteForce(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "abc\n")
	ws := New(Options{})
	_, err := ws.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("other\n"), 0o644))

	st := runCommand(ws, "w")
	require.True(t, st.Error)
	require.Equal(t, ErrFileChanged.Error(), st.Text)

	st = runCommand(ws, "w!")
	require.False(t, st.Error, st.Text)
	require.Equal(t, "abc\n", readFileT(t, path))
}

func TestCommand_WriteQuitForce(t *testing.T) {
	for _, cmd := range []string{"wq", "wq!", "x!"} {
		t.Run(cmd, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "a.txt", "abc\n")
			ws := New(Options{})
			doc, err := ws.Open(context.Background(), path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, []byte("other\n"), 0o644))

			typeKeys(ws, "x")
			st := runCommand(ws, cmd)
			if cmd == "wq" {
				require.True(t, st.Error)
				require.Equal(t, editor.ModeNormal, doc.Machine.Mode())
				require.Equal(t, "other\n", readFileT(t, path))
				return
			}
			require.False(t, st.Error, st.Text)
			require.Equal(t, editor.ModeExit, doc.Machine.Mode())
			require.Equal(t, "bc\n", readFileT(t, path))
		})
	}
}

func TestCommand_WritePath(t *testing.T) {
	ws := New(Options{})
	ws.Scratch()
	typeKeys(ws, "ihi<esc>")

	st := runCommand(ws, "w")
	require.True(t, st.Error)
	require.Equal(t, ErrNoFileName.Error(), st.Text)

	target := filepath.Join(t.TempDir(), "out.txt")
	st = runCommand(ws, "w "+target)
	require.False(t, st.Error, st.Text)
	require.Equal(t, "hi\n", readFileT(t, target))
}

func TestCommand_QuitGuardsHiddenBuffers(t *testing.T) {
	dir := t.TempDir()
	ws := New(Options{})
	_, err := ws.Open(context.Background(), writeFile(t, dir, "a", "a\n"))
	require.NoError(t, err)
	typeKeys(ws, "x")
	_, err = ws.Open(context.Background(), writeFile(t, dir, "b", "b\n"))
	require.NoError(t, err)

	st := runCommand(ws, "q")
	require.True(t, st.Error)
	require.Equal(t, editor.ModeNormal, ws.Current().Machine.Mode())

	runCommand(ws, "q!")
	require.Equal(t, editor.ModeExit, ws.Current().Machine.Mode())
}

func TestCommand_EditAndBuffers(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a\n")
	b := writeFile(t, dir, "b.txt", "b\n")
	ws := New(Options{})
	_, err := ws.Open(context.Background(), a)
	require.NoError(t, err)

	st := runCommand(ws, "e "+b)
	require.False(t, st.Error, st.Text)
	require.Equal(t, b, ws.Current().Path)

	runCommand(ws, "bn")
	require.Equal(t, a, ws.Current().Path)
	runCommand(ws, "bp")
	require.Equal(t, b, ws.Current().Path)

	st = runCommand(ws, "ls")
	require.Contains(t, st.Text, `1  "`)
	require.Contains(t, st.Text, `2% "`)
}

func TestCommand_EditReload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "abc\n")
	ws := New(Options{})
	doc, err := ws.Open(context.Background(), path)
	require.NoError(t, err)
	typeKeys(ws, "x")

	st := runCommand(ws, "e")
	require.True(t, st.Error)
	require.Equal(t, ErrUnsaved.Error(), st.Text)
	require.Equal(t, []string{"bc"}, doc.Buffer.Lines())

	st = runCommand(ws, "e!")
	require.False(t, st.Error, st.Text)
	require.Equal(t, []string{"abc"}, doc.Buffer.Lines())
}

func TestCommand_BufferDelete(t *testing.T) {
	dir := t.TempDir()
	ws := New(Options{})
	_, err := ws.Open(context.Background(), writeFile(t, dir, "a", "a\n"))
	require.NoError(t, err)

	st := runCommand(ws, "bd")
	require.True(t, st.Error)
	require.Contains(t, st.Text, "last buffer")

	_, err = ws.Open(context.Background(), writeFile(t, dir, "b", "b\n"))
	require.NoError(t, err)
	st = runCommand(ws, "bd")
	require.False(t, st.Error, st.Text)
	require.Len(t, ws.Documents(), 1)
}

func TestCommand_Registers(t *testing.T) {
	ws := New(Options{})
	ws.Scratch()

	require.Equal(t, "no registers set", runCommand(ws, "reg").Text)

	typeKeys(ws, "ihello\tworld<esc>")
	typeKeys(ws, `"a0D`)
	st := runCommand(ws, "reg")
	require.Equal(t, `"" hello\tworld | "a hello\tworld`, st.Text)
}

func TestCommand_Fallback(t *testing.T) {
	ui := &uiCommands{}
	ws := New(Options{Commands: ui})
	ws.Scratch()

	st := runCommand(ws, "set number")
	require.False(t, st.Error, st.Text)
	require.Equal(t, []string{"set number"}, ui.seen)

	st = runCommand(ws, "frobnicate")
	require.True(t, st.Error)
	require.Equal(t, "Not an editor command: frobnicate", st.Text)
}

func TestHandleCommand_UnknownWithoutFallback(t *testing.T) {
	ws := New(Options{})
	doc := ws.Scratch()
	_, err := ws.HandleCommand(doc.Buffer, "nope")
	require.True(t, errors.Is(err, editor.ErrUnknownCommand))
}
