package game

import (
	"fmt"
	"sort"
	"sync"
)

const (
	// TotalCards is the size of the selectable card pool.
	TotalCards = 500

	// FreeSpace is the sentinel stored at the card's center cell.
	FreeSpace = 0

	freeIndex     = 12 // row 2, column 2 in column-major order
	cardSeedPrime = 7919
)

// columnRanges are the B/I/N/G/O numeric ranges, 15 candidates each.
var columnRanges = [5]struct{ Min, Max int }{
	{1, 15},
	{16, 30},
	{31, 45},
	{46, 60},
	{61, 75},
}

// Card is a 25-number layout in column-major order: index col*5+row.
// Cards are pure derivations of their id; clients regenerate the same
// layout locally instead of receiving the numbers over the wire.
type Card struct {
	ID      int     `json:"id"`
	Numbers [25]int `json:"numbers"`
}

// Grid returns the row-major 5x5 view used for display.
func (c Card) Grid() [5][5]int {
	var g [5][5]int
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			g[row][col] = c.Numbers[col*5+row]
		}
	}
	return g
}

// CardCatalog maps card ids to layouts, caching generated cards.
type CardCatalog struct {
	mu    sync.RWMutex
	cache map[int]Card
}

func NewCardCatalog() *CardCatalog {
	return &CardCatalog{cache: make(map[int]Card)}
}

// CardFor returns the layout for id in 1..TotalCards. Out-of-range ids are
// an input error, never clamped.
func (c *CardCatalog) CardFor(id int) (Card, error) {
	if id < 1 || id > TotalCards {
		return Card{}, fmt.Errorf("%w: card id %d out of range 1..%d", ErrInvalidInput, id, TotalCards)
	}

	c.mu.RLock()
	card, ok := c.cache[id]
	c.mu.RUnlock()
	if ok {
		return card, nil
	}

	card = generateCard(id)
	c.mu.Lock()
	c.cache[id] = card
	c.mu.Unlock()
	return card, nil
}

func generateCard(id int) Card {
	card := Card{ID: id}
	seed := id * cardSeedPrime
	for col := 0; col < 5; col++ {
		nums := columnNumbers(seed+col, columnRanges[col].Min, columnRanges[col].Max)
		copy(card.Numbers[col*5:(col+1)*5], nums)
	}
	card.Numbers[freeIndex] = FreeSpace
	return card
}

// columnNumbers shuffles the 15 candidates for one column and keeps the
// first five, ascending.
func columnNumbers(seed, min, max int) []int {
	rng := seededRNG(seed)
	pool := make([]int, max-min+1)
	for i := range pool {
		pool[i] = min + i
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := int(rng() * float64(i+1))
		pool[i], pool[j] = pool[j], pool[i]
	}
	five := pool[:5]
	sort.Ints(five)
	return five
}

// seededRNG is the generator every client reimplements to rebuild a card
// from its id. The multiplier, increment, modulus and consumption order are
// part of that contract; do not change them.
func seededRNG(seed int) func() float64 {
	s := seed
	return func() float64 {
		s = (s*9301 + 49297) % 233280
		return float64(s) / 233280
	}
}
