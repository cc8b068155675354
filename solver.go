package canvas

// The layout solver distributes an available extent among sibling items
// along one axis, honoring per-item constraints. It runs in three phases:
// preferred assignment, even distribution of the remainder, then shrink or
// grow passes to converge the total toward the available extent. All
// arithmetic is integer; percentage sizings are resolved into absolute
// constraints by the caller before the solver runs.

type solverItem struct {
	constraint  Constraint
	size        int
	hasSize     bool
	constrained bool
}

// Solve lays out items along one axis. It returns the origin and size of
// each item; origins accumulate size plus spacing in item order. The sum of
// sizes equals available whenever the constraint set permits it; once no
// unconstrained item remains, no further adjustment is attempted.
func Solve(origin, available int, constraints []Constraint, spacing int) (origins, sizes []int) {
	if len(constraints) == 0 {
		return nil, nil
	}

	items := make([]solverItem, len(constraints))
	for i, c := range constraints {
		items[i] = solverItem{constraint: c}
	}

	// Phase 1: assign preferred sizes, clamped into [minimum, maximum].
	// Items clamped here are constrained and keep their size.
	for i := range items {
		c := items[i].constraint
		if !c.HasPreferred {
			continue
		}
		size := c.Preferred
		if size < c.Minimum {
			size = c.Minimum
			items[i].constrained = true
		}
		if size > c.Maximum {
			size = c.Maximum
			items[i].constrained = true
		}
		items[i].size = size
		items[i].hasSize = true
	}

	// Phase 2: distribute the remaining space evenly among free items.
	// Whenever a share violates an item's bounds the item is clamped,
	// flagged constrained, and the distribution re-runs over the smaller
	// free set. The loop terminates because the constrained set only grows.
	for {
		finished := true
		remaining := available
		count := len(items)
		for i := range items {
			if !items[i].constrained && !items[i].constraint.HasPreferred {
				items[i].hasSize = false
			}
		}
		for i := range items {
			if items[i].hasSize {
				remaining -= items[i].size
				count--
			}
		}
		for i := range items {
			if !items[i].hasSize {
				size := remaining / count
				c := items[i].constraint
				if size < c.Minimum {
					size = c.Minimum
					items[i].constrained = true
					finished = false
				}
				if size > c.Maximum {
					size = c.Maximum
					items[i].constrained = true
					finished = false
				}
				items[i].size = size
				items[i].hasSize = true
				remaining -= size
				count--
			}
			if !finished {
				break
			}
		}
		if finished {
			break
		}
	}

	// Phase 3: shrink from unconstrained items when oversized, never going
	// below minimum. Each clamp restarts the pass over the remaining
	// unconstrained items.
	for {
		finished := true
		total := 0
		for i := range items {
			total += items[i].size
		}
		if total > available {
			count := 0
			for i := range items {
				if !items[i].constrained {
					count++
				}
			}
			excess := total - available
			if count > 0 {
				for i := range items {
					if !items[i].constrained {
						size := items[i].size - excess/count
						if size < items[i].constraint.Minimum {
							size = items[i].constraint.Minimum
							items[i].constrained = true
							finished = false
						}
						excess -= items[i].size - size
						items[i].size = size
						count--
					}
					if !finished {
						break
					}
				}
			}
		}
		if finished {
			break
		}
	}

	// Phase 4: symmetric growth when undersized, never exceeding maximum.
	for {
		finished := true
		total := 0
		for i := range items {
			total += items[i].size
		}
		if total < available {
			count := 0
			for i := range items {
				if !items[i].constrained {
					count++
				}
			}
			shortfall := available - total
			if count > 0 {
				for i := range items {
					if !items[i].constrained {
						size := items[i].size + shortfall/count
						if size > items[i].constraint.Maximum {
							size = items[i].constraint.Maximum
							items[i].constrained = true
							finished = false
						}
						shortfall -= size - items[i].size
						items[i].size = size
						count--
					}
					if !finished {
						break
					}
				}
			}
		}
		if finished {
			break
		}
	}

	// Phase 5: residual rounding error goes to the last unconstrained item,
	// within its bounds.
	total := 0
	for i := range items {
		total += items[i].size
	}
	if residual := available - total; residual != 0 {
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].constrained {
				continue
			}
			size := items[i].size + residual
			c := items[i].constraint
			if size < c.Minimum {
				size = c.Minimum
			}
			if size > c.Maximum {
				size = c.Maximum
			}
			items[i].size = size
			break
		}
	}

	origins = make([]int, len(items))
	sizes = make([]int, len(items))
	at := origin
	for i := range items {
		origins[i] = at
		sizes[i] = items[i].size
		at += items[i].size + spacing
	}
	return origins, sizes
}
