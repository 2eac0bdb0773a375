package scheduler

// keyed is a desired collection indexed by identity, remembering first-seen order
type keyed[K comparable, D any] struct {
	order []K
	items map[K]D
	// dropped holds items that lost a key collision
	dropped []D
}

// indexByKey builds the lookup over desired items. With lastWins a repeated key
// overwrites the earlier item in place, otherwise the first item is kept.
func indexByKey[K comparable, D any](desired []D, key func(D) K, lastWins bool) keyed[K, D] {
	idx := keyed[K, D]{items: make(map[K]D, len(desired))}
	for _, d := range desired {
		k := key(d)
		prev, seen := idx.items[k]
		switch {
		case !seen:
			idx.order = append(idx.order, k)
			idx.items[k] = d
		case lastWins:
			idx.dropped = append(idx.dropped, prev)
			idx.items[k] = d
		default:
			idx.dropped = append(idx.dropped, d)
		}
	}
	return idx
}

type match[E, D any] struct {
	existing E
	desired  D
}

// partition is the outcome of comparing existing rows against a desired index
type partition[E, D any] struct {
	matched []match[E, D]
	missing []E
	extra   []D
}

// reconcile splits existing rows into matched and missing and reports desired
// items with no existing counterpart. Matched and missing keep the order of
// existing, extra keeps the order of desired.
func reconcile[K comparable, E, D any](existing []E, key func(E) K, desired keyed[K, D]) partition[E, D] {
	var p partition[E, D]
	processed := make(map[K]bool, len(existing))
	for _, e := range existing {
		k := key(e)
		if d, ok := desired.items[k]; ok {
			p.matched = append(p.matched, match[E, D]{existing: e, desired: d})
			processed[k] = true
			continue
		}
		p.missing = append(p.missing, e)
	}
	for _, k := range desired.order {
		if !processed[k] {
			p.extra = append(p.extra, desired.items[k])
		}
	}
	return p
}
