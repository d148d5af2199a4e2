package editor

// MotionKind identifies a cursor relocation.
type MotionKind int

const (
	MotionLeft MotionKind = iota
	MotionRight
	MotionUp
	MotionDown
	MotionLineStart
	MotionLineEnd
	MotionPrevWordStart
	MotionNextWordStart
	MotionWordEnd
	MotionFindChar
	MotionFindPrevChar
)

// motionSpec describes a MotionKind: its identifier, whether a delete over it
// includes the destination rune, and how to compute the destination.
// Searches set mustMove: staying in place means nothing was found.
type motionSpec struct {
	id        string
	inclusive bool
	execute   func(b *Buffer, c rune) Position
	mustMove  bool
}

var motionSpecs = map[MotionKind]motionSpec{
	MotionLeft:          {"motion.left", false, func(b *Buffer, _ rune) Position { return moveLeft(b) }, false},
	MotionRight:         {"motion.right", false, func(b *Buffer, _ rune) Position { return moveRight(b) }, false},
	MotionUp:            {"motion.up", false, func(b *Buffer, _ rune) Position { return moveUp(b) }, false},
	MotionDown:          {"motion.down", false, func(b *Buffer, _ rune) Position { return moveDown(b) }, false},
	MotionLineStart:     {"motion.line_start", false, func(b *Buffer, _ rune) Position { return lineStart(b) }, false},
	MotionLineEnd:       {"motion.line_end", true, func(b *Buffer, _ rune) Position { return lineEnd(b) }, false},
	MotionPrevWordStart: {"motion.word_backward", false, func(b *Buffer, _ rune) Position { return prevWordStart(b) }, false},
	MotionNextWordStart: {"motion.word_forward", false, func(b *Buffer, _ rune) Position { return nextWordStart(b) }, false},
	MotionWordEnd:       {"motion.word_end", true, func(b *Buffer, _ rune) Position { return wordEnd(b) }, false},
	MotionFindChar:      {"motion.find_char", true, findChar, true},
	MotionFindPrevChar:  {"motion.find_char_backward", false, findPrevChar, true},
}

// singleKeyMotions maps one-key sequences to motions.
var singleKeyMotions = map[rune]MotionKind{
	'h': MotionLeft,
	'l': MotionRight,
	'k': MotionUp,
	'j': MotionDown,
	'^': MotionLineStart,
	'0': MotionLineStart,
	'$': MotionLineEnd,
	'b': MotionPrevWordStart,
	'w': MotionNextWordStart,
	'e': MotionWordEnd,
}

// Motion is a resolved cursor relocation. Char is the search target of the
// find motions and is ignored by the others.
type Motion struct {
	Kind MotionKind
	Char rune
}

// ParseMotion resolves an accumulated key string. Single keys map directly;
// "f<c>" and "F<c>" search the current line. Any other string is not a
// motion.
func ParseMotion(keys string) (Motion, bool) {
	runes := []rune(keys)
	switch {
	case len(runes) == 1:
		kind, ok := singleKeyMotions[runes[0]]
		return Motion{Kind: kind}, ok
	case len(runes) == 2 && runes[0] == 'f':
		return Motion{Kind: MotionFindChar, Char: runes[1]}, true
	case len(runes) == 2 && runes[0] == 'F':
		return Motion{Kind: MotionFindPrevChar, Char: runes[1]}, true
	}
	return Motion{}, false
}

// Execute returns the destination of the motion from b's cursor.
func (m Motion) Execute(b *Buffer) Position {
	return motionSpecs[m.Kind].execute(b, m.Char)
}

// Inclusive reports whether deleting over this motion removes the rune the
// motion lands on.
func (m Motion) Inclusive() bool {
	return motionSpecs[m.Kind].inclusive
}

// found reports whether the motion located its target when it went from
// from to to.
func (m Motion) found(from, to Position) bool {
	return !motionSpecs[m.Kind].mustMove || from != to
}

// ID returns the hierarchical identifier of the motion, e.g. "motion.left".
func (m Motion) ID() string {
	return motionSpecs[m.Kind].id
}
