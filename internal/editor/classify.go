package editor

import "strings"

// charClass partitions runes for word motions. A word boundary falls wherever
// the class changes between neighbouring runes.
type charClass int

const (
	classWord charClass = iota
	classDelimiter
	classSpace
)

// delimiters is the punctuation set that separates words. Other punctuation
// and tabs are word characters.
const delimiters = "()[]{}<>$?^&=-/\\,.'\""

func classify(r rune) charClass {
	switch {
	case r == ' ':
		return classSpace
	case strings.ContainsRune(delimiters, r):
		return classDelimiter
	default:
		return classWord
	}
}

// isRunStart reports whether line[i] is the first rune of a non-space run.
func isRunStart(line []rune, i int) bool {
	c := classify(line[i])
	return c != classSpace && (i == 0 || classify(line[i-1]) != c)
}

// isRunEnd reports whether line[i] is the last rune of a non-space run.
func isRunEnd(line []rune, i int) bool {
	c := classify(line[i])
	return c != classSpace && (i == len(line)-1 || classify(line[i+1]) != c)
}

// firstNonSpace returns the index of the first non-space rune, or -1.
func firstNonSpace(line []rune) int {
	for i, r := range line {
		if classify(r) != classSpace {
			return i
		}
	}
	return -1
}

// lastNonSpace returns the index of the last non-space rune at or after from,
// or -1.
func lastNonSpace(line []rune, from int) int {
	for i := len(line) - 1; i >= max(from, 0); i-- {
		if classify(line[i]) != classSpace {
			return i
		}
	}
	return -1
}
