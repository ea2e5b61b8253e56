package inventory

import "fmt"

// Registry holds all loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// Register adds it to the registry.
//
// Precondition:  it must not be nil.
// Postcondition: Item(it.ID) returns (it, true); returns error if it.ID already registered.
func (r *Registry) Register(it *Item) error {
	if _, exists := r.items[it.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: item ID %q already registered", it.ID)
	}
	r.items[it.ID] = it
	return nil
}

// Item returns the Item for the given id and whether it was found.
func (r *Registry) Item(id string) (*Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// All returns every registered item ordered by price then ID, the order the
// shop lists them.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sortItems(out)
	return out
}

// Len returns the number of registered items.
func (r *Registry) Len() int { return len(r.items) }
