package tracker

import "sort"

// ApplyOrder reassigns contiguous 1-based ranks from a user-supplied
// id sequence. Duplicate ids collapse to their first occurrence,
// unknown ids are dropped, and topics missing from the sequence are
// appended at the end so nothing is silently lost. Reports whether any
// rank actually changed; callers persist only on true.
func ApplyOrder(topics map[string]*Topic, orderedIDs []string) (changed bool) {
	seen := make(map[string]bool, len(orderedIDs))
	sequence := make([]string, 0, len(topics))
	for _, id := range orderedIDs {
		if _, ok := topics[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		sequence = append(sequence, id)
	}

	// Topics a stale client list omitted keep their relative rank at
	// the tail.
	var missing []string
	for id := range topics {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return topics[missing[i]].Order < topics[missing[j]].Order
	})
	sequence = append(sequence, missing...)

	for idx, id := range sequence {
		rank := idx + 1
		if topics[id].Order != rank {
			topics[id].Order = rank
			changed = true
		}
	}
	return changed
}

// ByOrder returns the topics sorted by rank ascending.
func ByOrder(topics map[string]*Topic) []*Topic {
	items := make([]*Topic, 0, len(topics))
	for _, t := range topics {
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items
}

// SwapAdjacent exchanges the ranks of the topic and its neighbor above
// (delta -1) or below (delta +1) in rank order. A topic already at the
// edge is a no-op and reports false.
func SwapAdjacent(topics map[string]*Topic, id string, delta int) bool {
	ordered := ByOrder(topics)
	for i, t := range ordered {
		if t.ID != id {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(ordered) {
			return false
		}
		t.Order, ordered[j].Order = ordered[j].Order, t.Order
		return true
	}
	return false
}
