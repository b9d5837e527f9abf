package game

import (
	"fmt"
	"sort"
)

// CardRegistry tracks card reservations within one session. It carries no
// lock of its own: the owning session serializes every mutation.
type CardRegistry struct {
	totalCards int
	perPlayer  int
	owners     map[int]string          // card id -> player id
	byPlayer   map[string]map[int]bool // player id -> owned card ids
}

func NewCardRegistry(totalCards, perPlayer int) *CardRegistry {
	return &CardRegistry{
		totalCards: totalCards,
		perPlayer:  perPlayer,
		owners:     make(map[int]string),
		byPlayer:   make(map[string]map[int]bool),
	}
}

// Reserve claims cardID for playerID. Reserving a card the player already
// owns releases it instead; released reports which of the two happened.
func (r *CardRegistry) Reserve(playerID string, cardID int) (released bool, err error) {
	if cardID < 1 || cardID > r.totalCards {
		return false, fmt.Errorf("%w: card id %d out of range 1..%d", ErrInvalidInput, cardID, r.totalCards)
	}

	if owner, taken := r.owners[cardID]; taken {
		if owner == playerID {
			r.Release(playerID, cardID)
			return true, nil
		}
		return false, fmt.Errorf("%w: card %d already taken", ErrConflict, cardID)
	}

	if len(r.byPlayer[playerID]) >= r.perPlayer {
		return false, fmt.Errorf("%w: maximum %d cards per player", ErrConflict, r.perPlayer)
	}

	r.owners[cardID] = playerID
	if r.byPlayer[playerID] == nil {
		r.byPlayer[playerID] = make(map[int]bool)
	}
	r.byPlayer[playerID][cardID] = true
	return false, nil
}

// Release removes playerID's reservation of cardID if present.
func (r *CardRegistry) Release(playerID string, cardID int) bool {
	if r.owners[cardID] != playerID {
		return false
	}
	delete(r.owners, cardID)
	delete(r.byPlayer[playerID], cardID)
	if len(r.byPlayer[playerID]) == 0 {
		delete(r.byPlayer, playerID)
	}
	return true
}

// ReleaseAll frees every card held by playerID and returns the freed ids.
func (r *CardRegistry) ReleaseAll(playerID string) []int {
	cards := r.CardsOf(playerID)
	for _, id := range cards {
		r.Release(playerID, id)
	}
	return cards
}

// CardsOf returns playerID's reserved card ids, ascending.
func (r *CardRegistry) CardsOf(playerID string) []int {
	out := make([]int, 0, len(r.byPlayer[playerID]))
	for id := range r.byPlayer[playerID] {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Owner returns the player holding cardID, if any.
func (r *CardRegistry) Owner(cardID int) (string, bool) {
	owner, ok := r.owners[cardID]
	return owner, ok
}

// Taken returns every reserved card id, ascending.
func (r *CardRegistry) Taken() []int {
	out := make([]int, 0, len(r.owners))
	for id := range r.owners {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Available returns the unreserved card ids, ascending.
func (r *CardRegistry) Available() []int {
	out := make([]int, 0, r.totalCards-len(r.owners))
	for id := 1; id <= r.totalCards; id++ {
		if _, taken := r.owners[id]; !taken {
			out = append(out, id)
		}
	}
	return out
}
