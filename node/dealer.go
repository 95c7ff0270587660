package node

// Dealer is a work queue of types that visits each type once, which keeps
// walks over cyclic type graphs finite.
type Dealer[T comparable] struct {
	needs map[T]struct{}
	done  map[T]struct{}
	order []T
}

// NextNeeds pops a type that still has to be visited and marks it done.
func (d *Dealer[T]) NextNeeds() (t T, ok bool) {
	for len(d.order) > 0 {
		t, d.order = d.order[0], d.order[1:]

		if _, pending := d.needs[t]; !pending {
			continue
		}

		d.Done(t)
		return t, true
	}

	return
}

// Needs queues t unless it was already visited.
func (d *Dealer[T]) Needs(t T) {
	if d.needs == nil {
		d.needs = make(map[T]struct{})
	}

	if _, exists := d.done[t]; exists {
		return
	}

	if _, exists := d.needs[t]; !exists {
		d.needs[t] = struct{}{}
		d.order = append(d.order, t)
	}
}

// Done marks t as visited.
func (d *Dealer[T]) Done(t T) {
	if d.done == nil {
		d.done = make(map[T]struct{})
	}

	delete(d.needs, t)
	d.done[t] = struct{}{}
}
