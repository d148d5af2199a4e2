package workspace

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStat counts lines added and removed by a save.
type DiffStat struct {
	Added   int
	Removed int
}

func (d DiffStat) String() string {
	return fmt.Sprintf("+%d -%d", d.Added, d.Removed)
}

// Diff compares two texts line by line.
func Diff(before, after string) DiffStat {
	if before == after {
		return DiffStat{}
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(ensureEOL(before), ensureEOL(after))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var stat DiffStat
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stat.Added += strings.Count(d.Text, "\n")
		case diffmatchpatch.DiffDelete:
			stat.Removed += strings.Count(d.Text, "\n")
		}
	}
	return stat
}

// ensureEOL terminates the last line so every line diffs the same way.
func ensureEOL(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
