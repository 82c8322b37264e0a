package types

// Range is a byte view [Begin, Begin+Length) into an immutable source
// buffer. It never owns data.
type Range struct {
	Begin  int
	Length int
}

// End returns the offset just past the range.
func (r Range) End() int { return r.Begin + r.Length }

// Text returns the bytes the range covers within src.
func (r Range) Text(src []byte) []byte { return src[r.Begin:r.End()] }

// Contains reports whether the offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Begin && offset < r.End()
}
