package game

import "math/rand"

// CallMax is the size of the call universe.
const CallMax = 75

// NumberCaller draws 1..CallMax without replacement. A pre-shuffled pool
// replaces rejection sampling so a draw is O(1) even on the last number.
type NumberCaller struct {
	pool []int
	next int
}

func NewNumberCaller(r *rand.Rand) *NumberCaller {
	pool := make([]int, CallMax)
	for i := range pool {
		pool[i] = i + 1
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return &NumberCaller{pool: pool}
}

// Next returns the next call, or ErrExhausted once all numbers are drawn.
func (c *NumberCaller) Next() (int, error) {
	if c.next >= len(c.pool) {
		return 0, ErrExhausted
	}
	n := c.pool[c.next]
	c.next++
	return n, nil
}

// Called reports how many numbers have been drawn so far.
func (c *NumberCaller) Called() int {
	return c.next
}

// Letter returns the column letter for a called number.
func Letter(n int) string {
	switch {
	case n <= 15:
		return "B"
	case n <= 30:
		return "I"
	case n <= 45:
		return "N"
	case n <= 60:
		return "G"
	default:
		return "O"
	}
}
