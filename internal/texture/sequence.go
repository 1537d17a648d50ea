package texture

import (
	"fmt"
	"regexp"
	"strconv"
)

// sequencePattern matches names ending in a frame number of at least three
// digits before the extension, e.g. "water001.bmp".
var sequencePattern = regexp.MustCompile(`^(.*[^\d]+)(\d{3,})(\..*)$`)

// Sequence describes numbered image files forming an animated texture.
type Sequence struct {
	Prefix string // Everything before the frame number
	Start  int    // Frame number of the named file
	Pad    int    // Digits in the frame number
	Suffix string // Extension including the dot
}

// ParseSequence splits name into a sequence description. ok is false when
// name carries no frame number.
func ParseSequence(name string) (seq Sequence, ok bool) {
	m := sequencePattern.FindStringSubmatch(name)
	if m == nil {
		return Sequence{}, false
	}
	start, err := strconv.Atoi(m[2])
	if err != nil {
		return Sequence{}, false
	}
	return Sequence{Prefix: m[1], Start: start, Pad: len(m[2]), Suffix: m[3]}, true
}

// Frame returns the file name of frame n.
func (s Sequence) Frame(n int) string {
	return fmt.Sprintf("%s%0*d%s", s.Prefix, s.Pad, n, s.Suffix)
}

// Count returns the number of consecutive frames, starting at Start, for
// which exists reports true. Frame numbers never outgrow Pad digits.
func (s Sequence) Count(exists func(name string) bool) int {
	limit := 1
	for i := 0; i < s.Pad && limit < 1e9; i++ {
		limit *= 10
	}

	n := 0
	for s.Start+n < limit && exists(s.Frame(s.Start+n)) {
		n++
	}
	return n
}
