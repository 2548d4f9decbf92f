package cassowary

// table is an open-addressing hash map keyed by Symbol, generic over its
// payload. It follows the Brent-variant relocation scheme described in
// spec.md §4.1 (and implemented by amcw_newkey in the reference header):
// collisions are resolved by relocating whichever of the two competing
// entries is not already sitting at its own main position, so every
// lookup chain stays as short as possible without a separate overflow
// area. Table is reused for the solver's vars/constraints/rows maps and
// for each Row's own terms.
type table[V any] struct {
	slots    []slot[V]
	count    int
	lastFree int // next candidate index to scan for a free slot, +1
}

type slot[V any] struct {
	key  Symbol
	next int // index+1 of the next slot in this key's chain, 0 = none
	val  V
}

const minTableSize = 4

func (t *table[V]) mainPosition(key Symbol) int {
	return int(key.ID()) & (len(t.slots) - 1)
}

// Get returns the value stored under key and whether it was present.
func (t *table[V]) Get(key Symbol) (V, bool) {
	var zero V
	if len(t.slots) == 0 || key.Null() {
		return zero, false
	}
	i := t.mainPosition(key)
	for {
		s := &t.slots[i]
		if s.key == key {
			return s.val, true
		}
		if s.next == 0 {
			return zero, false
		}
		i = s.next - 1
	}
}

// GetPtr returns a pointer to the stored value for in-place mutation, or
// nil if key is absent.
func (t *table[V]) GetPtr(key Symbol) *V {
	if len(t.slots) == 0 || key.Null() {
		return nil
	}
	i := t.mainPosition(key)
	for {
		s := &t.slots[i]
		if s.key == key {
			return &s.val
		}
		if s.next == 0 {
			return nil
		}
		i = s.next - 1
	}
}

// Has reports whether key is present.
func (t *table[V]) Has(key Symbol) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of live entries.
func (t *table[V]) Len() int { return t.count }

// Set inserts a zero-valued entry for key if absent and returns a pointer
// to its value either way, matching amcw_settable's "insert zeroed
// payload if absent" contract.
func (t *table[V]) Set(key Symbol) *V {
	if key.Null() {
		panic("cassowary: table key must not be null")
	}
	if p := t.GetPtr(key); p != nil {
		return p
	}
	if len(t.slots) == 0 {
		t.grow(minTableSize)
	}
	i := t.newKey(key)
	t.count++
	return &t.slots[i].val
}

// Delete zeros the key in place (tombstoning by key==null) without
// reclaiming the slot, so iteration in progress stays valid. Deleting an
// absent key is a no-op.
func (t *table[V]) Delete(key Symbol) {
	if len(t.slots) == 0 || key.Null() {
		return
	}
	i := t.mainPosition(key)
	for {
		s := &t.slots[i]
		if s.key == key {
			var zero V
			s.key = nullSymbol
			s.val = zero
			t.count--
			return
		}
		if s.next == 0 {
			return
		}
		i = s.next - 1
	}
}

// Reset empties the table in place, keeping its backing storage.
func (t *table[V]) Reset() {
	for i := range t.slots {
		var zero slot[V]
		t.slots[i] = zero
	}
	t.count = 0
	t.lastFree = len(t.slots)
}

// Iterate calls fn for every live entry in slot order. fn may Delete the
// entry it was just handed; it must not insert new keys. Iteration stops
// early if fn returns false.
func (t *table[V]) Iterate(fn func(key Symbol, val *V) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.key.Null() {
			continue
		}
		if !fn(s.key, &s.val) {
			return
		}
	}
}

// newKey finds (or makes room for) a slot for key that is not yet present
// and returns its index. Caller must ensure key is absent and the table
// is non-empty.
func (t *table[V]) newKey(key Symbol) int {
	for {
		mp := t.mainPosition(key)
		if !t.slots[mp].key.Null() {
			free := t.findFreeSlot()
			if free == -1 {
				t.grow(t.count * 2)
				continue
			}
			occupant := &t.slots[mp]
			occupantMain := t.mainPosition(occupant.key)
			if occupantMain != mp {
				// occupant was chained in from elsewhere: relocate it to
				// the free slot and splice the chain to point there,
				// freeing up mp for key itself.
				prev := occupantMain
				for t.slots[prev].next-1 != mp {
					prev = t.slots[prev].next - 1
				}
				t.slots[prev].next = free + 1
				t.slots[free] = *occupant
				*occupant = slot[V]{}
				// key still takes the now-empty main position mp.
			} else {
				// occupant sits at its own main position: key is the
				// newcomer, so key gets the free slot and is chained
				// from the main position.
				t.slots[free].next = occupant.next
				occupant.next = free + 1
				mp = free
			}
		}
		t.slots[mp].key = key
		return mp
	}
}

// findFreeSlot scans downward from lastFree for an empty, unchained slot,
// matching the reference's "scan lastfree downwards" policy so repeated
// insertions don't rescan slots already known to be occupied.
func (t *table[V]) findFreeSlot() int {
	for t.lastFree > 0 {
		t.lastFree--
		s := &t.slots[t.lastFree]
		if s.key.Null() && s.next == 0 {
			return t.lastFree
		}
	}
	return -1
}

func (t *table[V]) grow(minCount int) {
	size := minTableSize
	for size < minCount {
		size <<= 1
	}
	old := t.slots
	t.slots = make([]slot[V], size)
	t.lastFree = size
	t.count = 0
	for i := range old {
		if old[i].key.Null() {
			continue
		}
		idx := t.newKey(old[i].key)
		t.slots[idx].val = old[i].val
		t.count++
	}
}
