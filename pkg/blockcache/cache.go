package blockcache

import (
	"github.com/eth2030/blockstage/pkg/log"
	"github.com/eth2030/blockstage/pkg/metrics"
)

// Cache is the reorg-tolerant block staging cache. It is specified as
// single-threaded and not reentrant: one logical owner calls
// AddBlock and RemoveBlockIfReady in sequence. Callers that need to drive
// it from multiple goroutines must wrap it in their own mutex -- Cache
// adds no internal locking because every operation is already short
// (O(1) outside promotion, O(subtree size) during promotion).
type Cache struct {
	pending    *pendingStore
	outOfOrder *outOfOrderHolding
	tree       *stagingTree

	log     *log.Logger
	metrics *metrics.Registry
}

// New creates an empty Cache using cfg. A zero-value Config is valid.
func New(cfg Config) *Cache {
	l := cfg.Logger
	if l == nil {
		l = log.Default().Module("blockcache")
	}
	return &Cache{
		pending:    newPendingStore(),
		outOfOrder: newOutOfOrderHolding(),
		tree:       newStagingTree(),
		log:        l,
		metrics:    cfg.Metrics,
	}
}

// AddBlock routes payload's descriptor into the staging tree if its
// parent is already known (or the tree is empty), otherwise parks it in
// out-of-order holding. A successful tree insertion cascades: every
// descriptor waiting on the newly inserted hash is drained and inserted
// in turn.
//
// A duplicate AddBlock for a hash already present in the pending store is
// a no-op: callers that resubmit the same block will not corrupt the
// cache, but their second payload is dropped rather than overwriting
// tree/holding state.
func (c *Cache) AddBlock(payload Payload) {
	desc := descriptorOf(payload)

	if c.pending.has(desc.Hash) {
		c.log.Debug("duplicate block ignored", "hash", desc.Hash)
		return
	}
	c.pending.insert(desc.Hash, payload)

	if c.tree.isEmpty() || c.tree.hasNode(desc.PrevHash) {
		c.tree.insert(desc)
		c.log.Debug("block staged", "hash", desc.Hash, "prev", desc.PrevHash)
		c.drainCascade(desc.Hash)
	} else {
		c.outOfOrder.park(desc)
		c.log.Debug("block parked out of order", "hash", desc.Hash, "prev", desc.PrevHash)
	}

	c.reportGauges()
}

// drainCascade inserts every descriptor parked under hash, then
// recursively drains whatever was waiting on each of those. It runs as an
// explicit work stack (depth-first, parked list's head first) rather than
// a recursive call chain, so an adversarially long parked chain cannot
// exhaust the call stack.
func (c *Cache) drainCascade(hash BlockId) {
	stack := []BlockId{hash}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parked := c.outOfOrder.drain(h)
		// Every parked descriptor is inserted here; pushing in reverse
		// makes the head of the parked list the next hash popped, so its
		// own dependents are drained before those of its later siblings.
		for i := len(parked) - 1; i >= 0; i-- {
			desc := parked[i]
			c.tree.insert(desc)
			c.log.Debug("drained parked block", "hash", desc.Hash, "prev", desc.PrevHash)
			stack = append(stack, desc.Hash)
		}
	}
}

// RemoveBlockIfReady promotes the current root if the tree's effective
// depth has reached threshold. On promotion it purges the losing
// siblings' entire subtrees from both the tree and the pending store,
// and returns the promoted payload. It returns nil if no promotion
// happened.
func (c *Cache) RemoveBlockIfReady(threshold uint32) Payload {
	desc, losing := c.tree.promoteIfReady(threshold)
	if desc == nil {
		return nil
	}

	purgedHashes := c.tree.purge(losing)
	for _, h := range purgedHashes {
		if _, ok := c.pending.take(h); !ok {
			panic("blockcache: purged node has no pending payload: " + h.Hex())
		}
	}

	payload, ok := c.pending.take(desc.Hash)
	if !ok {
		panic("blockcache: promoted node has no pending payload: " + desc.Hash.Hex())
	}

	c.log.Info("block promoted", "hash", desc.Hash, "purged", len(purgedHashes))
	c.reportGauges()
	if c.metrics != nil {
		c.metrics.Counter("blockcache.promoted").Inc()
		c.metrics.Counter("blockcache.purged").Add(int64(len(purgedHashes)))
		c.metrics.Histogram("blockcache.purged_per_promotion").Observe(float64(len(purgedHashes)))
	}

	return payload
}

// PendingCount returns the number of payloads currently held (staged plus
// out-of-order).
func (c *Cache) PendingCount() int {
	return c.pending.len()
}

// StagedCount returns the number of descriptors currently linked into the
// staging tree.
func (c *Cache) StagedCount() int {
	return len(c.tree.nodes)
}

// OutOfOrderCount returns the number of distinct parent hashes currently
// being waited on, not the number of parked descriptors.
func (c *Cache) OutOfOrderCount() int {
	return c.outOfOrder.size()
}

func (c *Cache) reportGauges() {
	if c.metrics == nil {
		return
	}
	c.metrics.Gauge("blockcache.pending").Set(int64(c.PendingCount()))
	c.metrics.Gauge("blockcache.staged").Set(int64(c.StagedCount()))
	c.metrics.Gauge("blockcache.out_of_order").Set(int64(c.OutOfOrderCount()))
}
