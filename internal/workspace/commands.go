package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/modal/internal/editor"
)

// HandleCommand implements editor.CommandHandler for buffer and file
// commands. Anything else goes to Options.Commands.
func (w *Workspace) HandleCommand(b *editor.Buffer, cmd string) (string, error) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	force := strings.HasSuffix(name, "!")
	name = strings.TrimSuffix(name, "!")

	switch name {
	case "w", "write":
		if !force && arg == "" {
			break
		}
		return w.write(b, arg, force)
	case "e", "edit":
		return w.edit(b, arg, force)
	case "bn", "bnext":
		return w.describe(w.Next()), nil
	case "bp", "bprevious":
		return w.describe(w.Prev()), nil
	case "bd", "bdelete":
		return w.closeCurrent(b, force)
	case "ls", "buffers":
		return w.List(), nil
	case "reg", "registers":
		return w.Registers(), nil
	}

	if w.opts.Commands != nil {
		return w.opts.Commands.HandleCommand(b, cmd)
	}
	return "", editor.ErrUnknownCommand
}

func (w *Workspace) write(b *editor.Buffer, path string, force bool) (string, error) {
	doc := w.byBuffer(b)
	if doc == nil {
		return "", ErrNotOpen
	}
	if path == "" {
		return w.saveBuffer(b, force)
	}
	stat, err := w.SaveAs(context.Background(), doc, path, force)
	if err != nil {
		return "", err
	}
	return writtenMessage(doc, stat), nil
}

func (w *Workspace) edit(b *editor.Buffer, path string, force bool) (string, error) {
	if path != "" {
		doc, err := w.Open(context.Background(), path)
		if err != nil {
			return "", err
		}
		return w.describe(doc), nil
	}

	doc := w.byBuffer(b)
	if doc == nil {
		return "", ErrNotOpen
	}
	if !force && doc.Dirty() {
		return "", ErrUnsaved
	}
	if err := w.Reload(context.Background(), doc); err != nil {
		return "", err
	}
	return w.describe(doc), nil
}

func (w *Workspace) closeCurrent(b *editor.Buffer, force bool) (string, error) {
	doc := w.byBuffer(b)
	if doc == nil {
		return "", ErrNotOpen
	}
	if len(w.docs) == 1 {
		return "", errors.New("cannot close last buffer")
	}
	if err := w.Close(doc, force); err != nil {
		return "", err
	}
	return w.describe(w.Current()), nil
}

// describe returns the status line shown after switching to doc.
func (w *Workspace) describe(doc *Document) string {
	if doc == nil {
		return ""
	}
	var flags string
	switch {
	case doc.Path == "":
	case !doc.onDisk:
		flags = " [New]"
	case doc.removed:
		flags = " [Deleted]"
	case doc.stale:
		flags = " [Changed on disk]"
	}
	return fmt.Sprintf("%q%s %dL", doc.Name(), flags, doc.Buffer.LineCount())
}

// List renders the open documents for ":ls", marking the current one with %
// and unsaved ones with +.
func (w *Workspace) List() string {
	parts := make([]string, 0, len(w.docs))
	for i, d := range w.docs {
		mark := " "
		if i == w.current {
			mark = "%"
		}
		dirty := ""
		if d.Dirty() {
			dirty = " +"
		}
		parts = append(parts, fmt.Sprintf("%d%s %q%s", i+1, mark, d.Name(), dirty))
	}
	return strings.Join(parts, " | ")
}

// Registers renders the populated registers for ":reg".
func (w *Workspace) Registers() string {
	reg := w.opts.Register
	keys := reg.Keys()
	if len(keys) == 0 {
		return "no registers set"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("\"%c %s", k, preview(reg.Get(k))))
	}
	return strings.Join(parts, " | ")
}

const previewLen = 20

// preview shows control characters escaped and truncates long values.
func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLen {
		s = string(r[:previewLen]) + "…"
	}
	return strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(s)
}
