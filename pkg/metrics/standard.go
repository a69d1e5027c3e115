package metrics

// Pre-defined metrics for the block staging cache. All metrics live in
// DefaultRegistry so they are globally accessible without passing a
// registry around; Cache itself only touches them through an injected
// *Registry (see blockcache.Config), never through these package vars
// directly, so tests can exercise a private Registry without polluting
// DefaultRegistry.

var (
	// ---- Pending store / holding / tree size metrics ----

	// Pending tracks the number of payloads currently held by the cache.
	Pending = DefaultRegistry.Gauge("blockcache.pending")
	// Staged tracks the number of descriptors linked into the staging tree.
	Staged = DefaultRegistry.Gauge("blockcache.staged")
	// OutOfOrder tracks the number of distinct parent hashes being waited on.
	OutOfOrder = DefaultRegistry.Gauge("blockcache.out_of_order")

	// ---- Promotion metrics ----

	// Promoted counts blocks promoted out of the staging tree.
	Promoted = DefaultRegistry.Counter("blockcache.promoted")
	// Purged counts blocks dropped as losing-branch siblings of a promotion.
	Purged = DefaultRegistry.Counter("blockcache.purged")
	// PurgedPerPromotion records how many blocks were purged alongside
	// each single promotion.
	PurgedPerPromotion = DefaultRegistry.Histogram("blockcache.purged_per_promotion")
)
