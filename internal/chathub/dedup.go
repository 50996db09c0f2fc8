package chathub

// recentIDs is a bounded set of the message IDs most recently written to
// a connection. The transport does not guarantee exactly-once delivery
// (an own-message echo can arrive both from the request response path and
// the bus), so every connection filters duplicates before writing.
type recentIDs struct {
	ids  map[uint]struct{}
	ring []uint
	next int
}

func newRecentIDs(capacity int) *recentIDs {
	return &recentIDs{
		ids:  make(map[uint]struct{}, capacity),
		ring: make([]uint, capacity),
	}
}

// Seen records id and reports whether it was already present. The oldest
// remembered ID is evicted once the window is full.
func (r *recentIDs) Seen(id uint) bool {
	if _, ok := r.ids[id]; ok {
		return true
	}

	if old := r.ring[r.next]; old != 0 {
		delete(r.ids, old)
	}
	r.ring[r.next] = id
	r.next = (r.next + 1) % len(r.ring)
	r.ids[id] = struct{}{}
	return false
}
