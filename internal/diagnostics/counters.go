package diagnostics

// DebugCounter implements the bisection-counter idiom a registration path
// may consult to suppress itself (used for bisection). Each call to Allow
// increments an internal tally and
// reports whether that tally falls within [Low, High] (inclusive); a
// developer narrowing down which threading decision introduces a
// miscompile binary-searches by shrinking the range.
type DebugCounter struct {
	Name string
	Low  int
	High int

	count int
}

// NewDebugCounter creates a counter that allows every call by default
// (Low=0, High=MaxInt).
func NewDebugCounter(name string) *DebugCounter {
	return &DebugCounter{Name: name, Low: 0, High: int(^uint(0) >> 1)}
}

// SetRange narrows the allowed range, as a bisection tool would after a
// command-line override.
func (c *DebugCounter) SetRange(low, high int) {
	c.Low, c.High = low, high
}

// Allow increments the counter and reports whether this call's index falls
// within the allowed range.
func (c *DebugCounter) Allow() bool {
	idx := c.count
	c.count++
	return idx >= c.Low && idx <= c.High
}

// Count returns how many times Allow has been called so far.
func (c *DebugCounter) Count() int {
	return c.count
}
