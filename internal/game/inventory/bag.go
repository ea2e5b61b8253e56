package inventory

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotCarried is returned when removing an item the bag does not hold.
var ErrNotCarried = errors.New("item not in inventory")

// Bag counts the items a player owns, keyed by item ID.
//
// Invariant: every stored quantity is > 0.
type Bag map[string]int

// Add places quantity units of itemID into the bag.
//
// Precondition: quantity > 0.
func (b Bag) Add(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("bag: quantity must be > 0, got %d", quantity)
	}
	b[itemID] += quantity
	return nil
}

// Remove takes quantity units of itemID out of the bag.
//
// Postcondition: on error the bag is unchanged; an entry reaching zero is deleted.
func (b Bag) Remove(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("bag: quantity must be > 0, got %d", quantity)
	}
	have := b[itemID]
	if have < quantity {
		return fmt.Errorf("bag: removing %d of %q (have %d): %w", quantity, itemID, have, ErrNotCarried)
	}
	if have == quantity {
		delete(b, itemID)
	} else {
		b[itemID] = have - quantity
	}
	return nil
}

// Count returns how many units of itemID the bag holds.
func (b Bag) Count(itemID string) int { return b[itemID] }

// IDs returns the carried item IDs in lexical order.
func (b Bag) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of b.
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for id, n := range b {
		out[id] = n
	}
	return out
}
