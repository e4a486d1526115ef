package xpath

import "sort"

// SequenceCursor is the one cross-cutting streaming contract (spec.md §9
// design note): Next yields the next item, (zero, false, nil) at
// exhaustion, or an error; Clone returns an independent cursor positioned
// identically to the receiver, used by last()/size-hint pre-scans.
type SequenceCursor interface {
	Next(dctx *DynamicContext) (Item, bool, error)
	Clone() SequenceCursor
}

// sliceCursor walks a pre-materialized slice of items. Used wherever the
// underlying source is already a Go slice (e.g. uinode.Node.Children),
// which is itself the provider's lazy-materialization boundary (spec.md
// §3): the cursor only indexes into it, it does not eagerly walk further
// structure.
type sliceCursor struct {
	items []Item
	pos   int
}

// NewSliceCursor returns a cursor over a fixed slice of items.
func NewSliceCursor(items []Item) SequenceCursor {
	return &sliceCursor{items: items}
}

func (c *sliceCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	if err := dctx.checkCancelled(); err != nil {
		return Item{}, false, err
	}
	if c.pos >= len(c.items) {
		return Item{}, false, nil
	}
	it := c.items[c.pos]
	c.pos++
	return it, true, nil
}

func (c *sliceCursor) Clone() SequenceCursor {
	cp := *c
	return &cp
}

// emptyCursor yields nothing.
type emptyCursor struct{}

func (emptyCursor) Next(*DynamicContext) (Item, bool, error) { return Item{}, false, nil }
func (emptyCursor) Clone() SequenceCursor                    { return emptyCursor{} }

// Drain materializes a cursor fully into a slice, honoring cancellation.
func Drain(c SequenceCursor, dctx *DynamicContext) ([]Item, error) {
	var out []Item
	for {
		it, ok, err := c.Next(dctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, it)
	}
}

// concatCursor chains cursors in order, preserving input order
// (spec.md §4.3 "sequence chaining ... no buffering unless downstream
// requests it").
type concatCursor struct {
	sources []SequenceCursor
	idx     int
}

func NewConcatCursor(sources ...SequenceCursor) SequenceCursor {
	return &concatCursor{sources: sources}
}

func (c *concatCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for c.idx < len(c.sources) {
		it, ok, err := c.sources[c.idx].Next(dctx)
		if err != nil {
			return Item{}, false, err
		}
		if ok {
			return it, true, nil
		}
		c.idx++
	}
	return Item{}, false, nil
}

func (c *concatCursor) Clone() SequenceCursor {
	clones := make([]SequenceCursor, len(c.sources))
	for i, s := range c.sources {
		clones[i] = s.Clone()
	}
	return &concatCursor{sources: clones, idx: c.idx}
}

// ensureDistinctCursor removes duplicate items (by identity key) while
// preserving order (spec.md §8 "EnsureDistinct removes duplicates while
// preserving order").
type ensureDistinctCursor struct {
	upstream SequenceCursor
	seen     map[string]bool
}

func NewEnsureDistinct(upstream SequenceCursor) SequenceCursor {
	return &ensureDistinctCursor{upstream: upstream, seen: map[string]bool{}}
}

func (c *ensureDistinctCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for {
		it, ok, err := c.upstream.Next(dctx)
		if err != nil {
			return Item{}, false, err
		}
		if !ok {
			return Item{}, false, nil
		}
		key, stable := it.identityKey()
		if !stable {
			return it, true, nil
		}
		if c.seen[key] {
			continue
		}
		c.seen[key] = true
		return it, true, nil
	}
}

func (c *ensureDistinctCursor) Clone() SequenceCursor {
	seenCopy := make(map[string]bool, len(c.seen))
	for k, v := range c.seen {
		seenCopy[k] = v
	}
	return &ensureDistinctCursor{upstream: c.upstream.Clone(), seen: seenCopy}
}

// ensureOrderCursor enforces document order using a one-item lookahead
// with single-swap repair, falling back to a full buffer-sort only on
// proven disorder beyond that (spec.md §4.3, §9 Open Question: "no
// out-of-order item emitted to caller"). The lookahead/repair repeats
// for every item pulled from upstream, not just once at stream start:
// an item that survives a check without being emitted is carried into
// the next check rather than handed out, so disorder straddling two
// lookahead windows is still caught.
type ensureOrderCursor struct {
	upstream  SequenceCursor
	pending   []Item // buffered, already-sorted-for-emission
	carry     *Item  // pulled and checked, but not yet confirmed safe to emit
	exhausted bool
}

func NewEnsureOrder(upstream SequenceCursor) SequenceCursor {
	return &ensureOrderCursor{upstream: upstream}
}

func docKeyOf(it Item) (uint64, bool) { return it.docOrderKey() }

func lessInDocOrder(a, b Item) bool {
	ka, oka := docKeyOf(a)
	kb, okb := docKeyOf(b)
	if oka && okb {
		return ka < kb
	}
	return false
}

// refill runs the lookahead/repair check anchored at c.carry (the item
// held back by the previous refill) or, once carry runs dry, at the
// next item pulled fresh from upstream. Called whenever c.pending is
// empty, so every item the caller receives has already been checked
// against its neighbor, for the whole stream and not just its start.
func (c *ensureOrderCursor) refill(dctx *DynamicContext) error {
	if c.exhausted {
		return nil
	}

	var first Item
	if c.carry != nil {
		first = *c.carry
		c.carry = nil
	} else {
		it, ok, err := c.upstream.Next(dctx)
		if err != nil {
			return err
		}
		if !ok {
			c.exhausted = true
			return nil
		}
		first = it
	}

	second, ok2, err := c.upstream.Next(dctx)
	if err != nil {
		return err
	}
	if !ok2 {
		c.pending = []Item{first}
		c.exhausted = true
		return nil
	}

	if lessInDocOrder(second, first) {
		// single inversion: swap and keep watching; if a third item is
		// also out of order relative to the (now ordered) pair, give up
		// on the cheap path and buffer-sort everything that remains.
		third, ok3, err := c.upstream.Next(dctx)
		if err != nil {
			return err
		}
		if !ok3 {
			c.pending = []Item{second, first}
			c.exhausted = true
			return nil
		}
		if lessInDocOrder(third, first) {
			rest, err := Drain(c.upstream, dctx)
			if err != nil {
				return err
			}
			all := append([]Item{first, second, third}, rest...)
			sortByDocOrder(all)
			c.pending = all
			c.exhausted = true
			return nil
		}
		c.pending = []Item{second, first}
		held := third
		c.carry = &held
		return nil
	}

	c.pending = []Item{first}
	held := second
	c.carry = &held
	return nil
}

func sortByDocOrder(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessInDocOrder(items[i], items[j])
	})
}

func (c *ensureOrderCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	if len(c.pending) == 0 {
		if err := c.refill(dctx); err != nil {
			return Item{}, false, err
		}
	}
	if len(c.pending) == 0 {
		return Item{}, false, nil
	}
	it := c.pending[0]
	c.pending = c.pending[1:]
	return it, true, nil
}

func (c *ensureOrderCursor) Clone() SequenceCursor {
	pendingCopy := make([]Item, len(c.pending))
	copy(pendingCopy, c.pending)
	var carryCopy *Item
	if c.carry != nil {
		v := *c.carry
		carryCopy = &v
	}
	return &ensureOrderCursor{upstream: c.upstream.Clone(), pending: pendingCopy, carry: carryCopy, exhausted: c.exhausted}
}
