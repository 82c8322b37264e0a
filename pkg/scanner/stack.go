package scanner

// DelimiterStack holds the closing delimiters the scanner still expects,
// innermost last. It validates the nesting of (), [] and {}.
type DelimiterStack struct {
	closers []byte
}

// Push records the closer expected for an opening delimiter.
func (d *DelimiterStack) Push(opener byte) {
	d.closers = append(d.closers, matchingCloser(opener))
}

// Pop removes and returns the innermost expected closer. ok is false when
// the stack is empty.
func (d *DelimiterStack) Pop() (closer byte, ok bool) {
	if len(d.closers) == 0 {
		return 0, false
	}
	closer = d.closers[len(d.closers)-1]
	d.closers = d.closers[:len(d.closers)-1]
	return closer, true
}

// Empty reports whether no delimiters are open.
func (d *DelimiterStack) Empty() bool { return len(d.closers) == 0 }

// Depth returns the current nesting depth.
func (d *DelimiterStack) Depth() int { return len(d.closers) }

func matchingCloser(opener byte) byte {
	switch opener {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}
