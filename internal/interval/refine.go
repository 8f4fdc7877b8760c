package interval

// Refine rewrites a list of (possibly overlapping) sets into a minimal list
// of pairwise-disjoint, non-empty sets whose union equals the union of the
// inputs. The textbook algorithm: iteratively find any overlapping pair
// (u, v), replace both with {u\v, v\u, u∩v}, dropping empties, until no
// two remaining sets overlap.
//
// Deduplication of the input list is the caller's responsibility (see
// Dedup), since it operates on the collected guard sets before they ever
// reach Refine.
func Refine(sets []Set) []Set {
	work := append([]Set(nil), sets...)
	for {
		i, j, found := findOverlap(work)
		if !found {
			return work
		}
		u, v := work[i], work[j]
		pieces := []Set{Subtract(u, v), Subtract(v, u), Intersection(u, v)}

		next := make([]Set, 0, len(work)+2)
		for k, s := range work {
			if k == i || k == j {
				continue
			}
			next = append(next, s)
		}
		for _, p := range pieces {
			if !p.IsEmpty() {
				next = append(next, p)
			}
		}
		work = next
	}
}

func findOverlap(sets []Set) (int, int, bool) {
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if !Intersection(sets[i], sets[j]).IsEmpty() && !Equal(sets[i], sets[j]) {
				return i, j, true
			}
			if Equal(sets[i], sets[j]) {
				// Identical sets collapse into one by treating them as
				// fully overlapping; u\v and v\u are both empty, leaving
				// only their intersection.
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Dedup removes sets from the list that are equal (as a set of reals) to an
// earlier entry, preserving first-seen order, so repeated guard sets are
// collected once before refinement.
func Dedup(sets []Set) []Set {
	var out []Set
	for _, s := range sets {
		dup := false
		for _, o := range out {
			if Equal(o, s) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
