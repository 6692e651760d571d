// Package identified provides an ordered collection addressed by element identity.
package identified

import "encoding/json"

// Identifiable is implemented by elements that carry their own key.
type Identifiable[K comparable] interface {
	Identity() K
}

// Array is an ordered, keyed collection with value semantics.
//
// Mutating methods return a new Array and never write to the backing slice of
// the receiver, so copies of a state tree stay independent. Arrays compare
// equal with reflect.DeepEqual when their elements do.
type Array[K comparable, T Identifiable[K]] struct {
	items []T
}

// Of builds an array from items. Later items replace earlier ones with the same key.
func Of[K comparable, T Identifiable[K]](items ...T) Array[K, T] {
	var a Array[K, T]
	for _, item := range items {
		a = a.Set(item)
	}
	return a
}

func (a Array[K, T]) index(id K) int {
	for i, item := range a.items {
		if item.Identity() == id {
			return i
		}
	}
	return -1
}

// Get returns the element with key id.
func (a Array[K, T]) Get(id K) (T, bool) {
	if i := a.index(id); i >= 0 {
		return a.items[i], true
	}
	var zero T
	return zero, false
}

// Has reports whether an element with key id exists.
func (a Array[K, T]) Has(id K) bool {
	return a.index(id) >= 0
}

// Set replaces the element with the same key, or appends it.
func (a Array[K, T]) Set(item T) Array[K, T] {
	items := a.clone(1)
	if i := a.index(item.Identity()); i >= 0 {
		items[i] = item
	} else {
		items = append(items, item)
	}
	return Array[K, T]{items: items}
}

// Update applies fn to the element with key id. Missing keys leave the array unchanged.
func (a Array[K, T]) Update(id K, fn func(*T)) (Array[K, T], bool) {
	i := a.index(id)
	if i < 0 {
		return a, false
	}
	items := a.clone(0)
	fn(&items[i])
	return Array[K, T]{items: items}, true
}

// Remove drops the element with key id.
func (a Array[K, T]) Remove(id K) Array[K, T] {
	i := a.index(id)
	if i < 0 {
		return a
	}
	items := make([]T, 0, len(a.items)-1)
	items = append(items, a.items[:i]...)
	items = append(items, a.items[i+1:]...)
	return Array[K, T]{items: items}
}

// IDs lists keys in order.
func (a Array[K, T]) IDs() []K {
	ids := make([]K, len(a.items))
	for i, item := range a.items {
		ids[i] = item.Identity()
	}
	return ids
}

// Items returns a copy of the elements in order.
func (a Array[K, T]) Items() []T {
	return a.clone(0)
}

// Len is the number of elements.
func (a Array[K, T]) Len() int {
	return len(a.items)
}

func (a Array[K, T]) clone(extra int) []T {
	if len(a.items) == 0 && extra == 0 {
		return nil
	}
	items := make([]T, len(a.items), len(a.items)+extra)
	copy(items, a.items)
	return items
}

func (a Array[K, T]) MarshalJSON() ([]byte, error) {
	if a.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.items)
}

func (a *Array[K, T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*a = Of[K](items...)
	return nil
}
