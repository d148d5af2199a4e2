// Package workspace manages the documents open in an editor session: loading
// and saving files, switching between buffers, and the ":" commands that act
// on them.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/tracing"
)

var (
	// ErrNoFileName is returned when saving a document that has no path.
	ErrNoFileName = errors.New("no file name")
	// ErrFileChanged is returned when the file was modified by another
	// program since it was read.
	ErrFileChanged = errors.New("file changed on disk since reading it (add ! to override)")
	// ErrUnsaved is returned when an operation would discard edits.
	ErrUnsaved = errors.New("no write since last change (add ! to override)")
	// ErrNotOpen is returned for documents that are not part of the workspace.
	ErrNotOpen = errors.New("document not open")
)

// FileWatcher is notified of the paths of open documents.
type FileWatcher interface {
	Add(path string) error
	Remove(path string) error
}

// Options configures a Workspace.
type Options struct {
	// Register is shared by every document. Nil creates one.
	Register    *editor.Register
	Clock       editor.Clock
	IdleTimeout time.Duration
	Tracer      trace.Tracer
	Watcher     FileWatcher
	// Commands receives ":" commands the workspace does not handle.
	Commands editor.CommandHandler
}

// Workspace holds the open documents and tracks which one is current. It is
// used from the UI goroutine only.
type Workspace struct {
	opts    Options
	docs    []*Document
	current int
	now     func() time.Time
}

// New creates an empty workspace.
func New(opts Options) *Workspace {
	if opts.Register == nil {
		opts.Register = editor.NewRegister()
	}
	if opts.Clock == nil {
		opts.Clock = editor.SystemClock{}
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(tracing.ServiceName)
	}
	return &Workspace{opts: opts, now: opts.Clock.Now}
}

// SetCommands installs the handler for commands the workspace does not know.
func (w *Workspace) SetCommands(h editor.CommandHandler) {
	w.opts.Commands = h
}

// Register returns the register set shared by all documents.
func (w *Workspace) Register() *editor.Register {
	return w.opts.Register
}

// Documents returns the open documents in open order.
func (w *Workspace) Documents() []*Document {
	return append([]*Document(nil), w.docs...)
}

// Current returns the active document, or nil when none is open.
func (w *Workspace) Current() *Document {
	if len(w.docs) == 0 {
		return nil
	}
	return w.docs[w.current]
}

// Next makes the following document current, wrapping around.
func (w *Workspace) Next() *Document {
	if len(w.docs) == 0 {
		return nil
	}
	w.current = (w.current + 1) % len(w.docs)
	return w.docs[w.current]
}

// Prev makes the preceding document current, wrapping around.
func (w *Workspace) Prev() *Document {
	if len(w.docs) == 0 {
		return nil
	}
	w.current = (w.current - 1 + len(w.docs)) % len(w.docs)
	return w.docs[w.current]
}

// Find returns the open document for path, or nil.
func (w *Workspace) Find(path string) *Document {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	for _, d := range w.docs {
		if d.Path == abs {
			return d
		}
	}
	return nil
}

func (w *Workspace) byBuffer(b *editor.Buffer) *Document {
	for _, d := range w.docs {
		if d.Buffer == b {
			return d
		}
	}
	return nil
}

func (w *Workspace) indexOf(doc *Document) int {
	for i, d := range w.docs {
		if d == doc {
			return i
		}
	}
	return -1
}

func (w *Workspace) newDocument(path, text string, eol, onDisk bool) *Document {
	return &Document{
		ID:     uuid.New(),
		Path:   path,
		Buffer: editor.Load(text, w.opts.Register),
		Machine: editor.NewMachine(editor.Config{
			Clock:       w.opts.Clock,
			IdleTimeout: w.opts.IdleTimeout,
			Storage:     storage{w},
			Commands:    w,
		}),
		saved:    text,
		eol:      eol,
		onDisk:   onDisk,
		openedAt: w.now(),
	}
}

func (w *Workspace) add(doc *Document) {
	w.docs = append(w.docs, doc)
	w.current = len(w.docs) - 1
}

// Scratch opens an empty document with no path and makes it current.
func (w *Workspace) Scratch() *Document {
	doc := w.newDocument("", "", true, false)
	w.add(doc)
	log.Debug(log.CatFile, "Opened scratch document", "id", doc.ID)
	return doc
}

// Open loads path and makes it current. A path that is already open just
// becomes current; a missing file opens as an empty document.
func (w *Workspace) Open(ctx context.Context, path string) (doc *Document, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if existing := w.Find(abs); existing != nil {
		w.current = w.indexOf(existing)
		return existing, nil
	}

	_, span := tracing.Start(ctx, w.opts.Tracer, tracing.SpanDocumentOpen, attribute.String(tracing.AttrPath, abs))
	defer func() { tracing.End(span, err) }()

	content, onDisk, err := readFile(abs)
	if err != nil {
		log.ErrorErr(log.CatFile, "Failed to open file", err, "path", abs)
		return nil, err
	}

	// New files get a trailing newline; existing ones keep what they had.
	text, eol := decode(content)
	doc = w.newDocument(abs, text, eol || !onDisk, onDisk)
	w.add(doc)
	w.watch(abs)

	span.SetAttributes(
		attribute.Int(tracing.AttrBytes, len(content)),
		attribute.Int(tracing.AttrLines, doc.Buffer.LineCount()),
	)
	log.Info(log.CatFile, "Opened file", "path", abs, "bytes", len(content), "new", !onDisk)
	return doc, nil
}

func readFile(path string) (content string, exists bool, err error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	case info.IsDir():
		return "", false, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), true, nil
}

func (w *Workspace) watch(path string) {
	if w.opts.Watcher == nil {
		return
	}
	if err := w.opts.Watcher.Add(path); err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to watch file", err, "path", path)
	}
}

// Save writes doc to its path. Unless force is set, it refuses when the file
// was changed by another program since it was read.
func (w *Workspace) Save(ctx context.Context, doc *Document, force bool) (stat DiffStat, err error) {
	if doc.Path == "" {
		return DiffStat{}, ErrNoFileName
	}

	_, span := tracing.Start(ctx, w.opts.Tracer, tracing.SpanDocumentSave, attribute.String(tracing.AttrPath, doc.Path))
	defer func() { tracing.End(span, err) }()

	if !force {
		disk, exists, err := readFile(doc.Path)
		if err != nil {
			return DiffStat{}, err
		}
		if exists && (!doc.onDisk || disk != doc.encode(doc.saved)) {
			return DiffStat{}, ErrFileChanged
		}
	}

	text := doc.Buffer.Serialize()
	content := doc.encode(text)
	if err := writeAtomic(doc.Path, []byte(content)); err != nil {
		log.ErrorErr(log.CatFile, "Failed to save file", err, "path", doc.Path)
		return DiffStat{}, err
	}

	stat = Diff(doc.saved, text)
	doc.saved = text
	doc.onDisk = true
	doc.stale = false
	doc.removed = false

	span.SetAttributes(
		attribute.Int(tracing.AttrBytes, len(content)),
		attribute.Int(tracing.AttrAdded, stat.Added),
		attribute.Int(tracing.AttrRemoved, stat.Removed),
	)
	log.Info(log.CatFile, "Saved file", "path", doc.Path, "bytes", len(content), "diff", stat)
	return stat, nil
}

// SaveAs points doc at path and saves it there.
func (w *Workspace) SaveAs(ctx context.Context, doc *Document, path string, force bool) (DiffStat, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DiffStat{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	if abs == doc.Path {
		return w.Save(ctx, doc, force)
	}
	if other := w.Find(abs); other != nil {
		return DiffStat{}, fmt.Errorf("%s is open in another buffer", other.Name())
	}
	if _, exists, err := readFile(abs); err != nil {
		return DiffStat{}, err
	} else if exists && !force {
		return DiffStat{}, fmt.Errorf("file exists (add ! to override)")
	}

	prev := doc.Path
	doc.Path = abs
	doc.onDisk = false
	stat, err := w.Save(ctx, doc, true)
	if err != nil {
		doc.Path = prev
		return DiffStat{}, err
	}
	if prev != "" && w.opts.Watcher != nil {
		_ = w.opts.Watcher.Remove(prev)
	}
	w.watch(abs)
	return stat, nil
}

// writeAtomic writes data next to path and renames it into place, keeping the
// existing file mode.
func writeAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".modal.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Reload rereads doc from disk, discarding unsaved edits.
func (w *Workspace) Reload(ctx context.Context, doc *Document) (err error) {
	if doc.Path == "" {
		return ErrNoFileName
	}

	_, span := tracing.Start(ctx, w.opts.Tracer, tracing.SpanDocumentReload, attribute.String(tracing.AttrPath, doc.Path))
	defer func() { tracing.End(span, err) }()

	content, onDisk, err := readFile(doc.Path)
	if err != nil {
		return err
	}
	text, eol := decode(content)
	doc.Buffer.Reset(text)
	doc.saved = text
	doc.eol = eol || !onDisk
	doc.onDisk = onDisk
	doc.stale = false
	doc.removed = !onDisk
	log.Info(log.CatFile, "Reloaded file", "path", doc.Path)
	return nil
}

// Close removes doc from the workspace. Unless force is set, a dirty
// document is refused with ErrUnsaved.
func (w *Workspace) Close(doc *Document, force bool) error {
	i := w.indexOf(doc)
	if i < 0 {
		return ErrNotOpen
	}
	if !force && doc.Dirty() {
		return ErrUnsaved
	}

	w.docs = append(w.docs[:i], w.docs[i+1:]...)
	if w.current >= len(w.docs) {
		w.current = max(0, len(w.docs)-1)
	} else if i < w.current {
		w.current--
	}
	if doc.Path != "" && w.opts.Watcher != nil {
		if err := w.opts.Watcher.Remove(doc.Path); err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to unwatch file", err, "path", doc.Path)
		}
	}
	log.Debug(log.CatFile, "Closed document", "id", doc.ID, "path", doc.Path)
	return nil
}

// AnyDirty reports whether any open document has unsaved changes.
func (w *Workspace) AnyDirty() bool {
	for _, d := range w.docs {
		if d.Dirty() {
			return true
		}
	}
	return false
}

// FileChanged records that path was written by another program. It returns
// the affected document, or nil when the event needs no attention because
// the path is not open or the disk already matches the last save.
func (w *Workspace) FileChanged(path string) *Document {
	doc := w.Find(path)
	if doc == nil {
		return nil
	}
	content, exists, err := readFile(doc.Path)
	if err != nil || !exists {
		return nil
	}
	if content == doc.encode(doc.saved) {
		doc.stale = false
		doc.removed = false
		return nil
	}
	doc.stale = true
	doc.removed = false
	log.Warn(log.CatFile, "File changed on disk", "path", doc.Path)
	return doc
}

// FileRemoved records that path was deleted or renamed away.
func (w *Workspace) FileRemoved(path string) *Document {
	doc := w.Find(path)
	if doc == nil {
		return nil
	}
	if _, exists, _ := readFile(doc.Path); exists {
		return w.FileChanged(path)
	}
	doc.removed = true
	log.Warn(log.CatFile, "File removed on disk", "path", doc.Path)
	return doc
}

// storage adapts the workspace to editor.Storage for its documents.
type storage struct {
	w *Workspace
}

// Save implements editor.Storage for the document owning b.
func (s storage) Save(b *editor.Buffer, force bool) (string, error) {
	return s.w.saveBuffer(b, force)
}

// Modified implements editor.Storage. It reports unsaved changes in any open
// document, so ":q" never drops edits in a hidden buffer.
func (s storage) Modified(*editor.Buffer) bool {
	return s.w.AnyDirty()
}

func (w *Workspace) saveBuffer(b *editor.Buffer, force bool) (string, error) {
	doc := w.byBuffer(b)
	if doc == nil {
		return "", ErrNotOpen
	}
	stat, err := w.Save(context.Background(), doc, force)
	if err != nil {
		return "", err
	}
	return writtenMessage(doc, stat), nil
}

func writtenMessage(doc *Document, stat DiffStat) string {
	content := doc.encode(doc.saved)
	return fmt.Sprintf("%q %dL, %dB written (%s)", doc.Name(), doc.Buffer.LineCount(), len(content), stat)
}
