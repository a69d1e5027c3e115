package blockcache

// outOfOrderHolding parks descriptors whose parent has not been seen yet,
// keyed by the still-unknown parent hash. A descriptor has exactly one
// prev_hash, so it is parked under exactly one key.
type outOfOrderHolding struct {
	byParent map[BlockId][]BlockDescriptor
}

func newOutOfOrderHolding() *outOfOrderHolding {
	return &outOfOrderHolding{byParent: make(map[BlockId][]BlockDescriptor)}
}

// park appends desc to the list keyed by desc.PrevHash, preserving
// insertion order within that key.
func (h *outOfOrderHolding) park(desc BlockDescriptor) {
	h.byParent[desc.PrevHash] = append(h.byParent[desc.PrevHash], desc)
}

// drain removes and returns the list of descriptors parked under
// prevHash, in insertion order. It returns nil if no descriptors are
// parked under that key.
func (h *outOfOrderHolding) drain(prevHash BlockId) []BlockDescriptor {
	list, ok := h.byParent[prevHash]
	if !ok {
		return nil
	}
	delete(h.byParent, prevHash)
	return list
}

// size returns the number of distinct parent keys currently parked, not
// the number of parked descriptors.
func (h *outOfOrderHolding) size() int {
	return len(h.byParent)
}

// descriptorCount returns the total number of parked descriptors across
// all keys. Used by invariant checks and tests, not by the public façade.
func (h *outOfOrderHolding) descriptorCount() int {
	n := 0
	for _, list := range h.byParent {
		n += len(list)
	}
	return n
}
