package workspace

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/modal/internal/editor"
)

// NoName is shown for documents without a path.
const NoName = "[No Name]"

// Document is one open buffer and the machine that edits it.
type Document struct {
	ID      uuid.UUID
	Path    string
	Buffer  *editor.Buffer
	Machine *editor.Machine

	// saved is the buffer text as of the last load or save.
	saved string
	// eol records whether the file ends with a newline; it is restored on save.
	eol      bool
	onDisk   bool
	stale    bool
	removed  bool
	openedAt time.Time
}

// Name returns the path relative to the working directory when possible.
func (d *Document) Name() string {
	if d.Path == "" {
		return NoName
	}
	if wd, err := filepath.Abs("."); err == nil {
		if rel, err := filepath.Rel(wd, d.Path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return d.Path
}

// Dirty reports whether the buffer differs from the last saved text.
func (d *Document) Dirty() bool {
	return d.Buffer.Serialize() != d.saved
}

// Stale reports whether the file changed on disk after it was read.
func (d *Document) Stale() bool {
	return d.stale
}

// Removed reports whether the file was deleted or renamed on disk.
func (d *Document) Removed() bool {
	return d.removed
}

// OpenedAt returns when the document was loaded.
func (d *Document) OpenedAt() time.Time {
	return d.openedAt
}

// encode returns the bytes written for text.
func (d *Document) encode(text string) string {
	if d.eol {
		return text + "\n"
	}
	return text
}

// decode strips one trailing newline, remembering whether it was there.
func decode(content string) (text string, eol bool) {
	if strings.HasSuffix(content, "\n") {
		return strings.TrimSuffix(content, "\n"), true
	}
	return content, false
}
