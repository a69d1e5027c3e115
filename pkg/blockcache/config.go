package blockcache

import (
	"github.com/eth2030/blockstage/pkg/log"
	"github.com/eth2030/blockstage/pkg/metrics"
)

// Config configures a Cache. There is no environment or CLI parsing here --
// the core exposes no CLI surface and reads no environment variables;
// callers construct a Config in code.
type Config struct {
	// Logger receives debug/info logs about promotions and purges. A nil
	// Logger falls back to log.Default().Module("blockcache").
	Logger *log.Logger

	// Metrics, if non-nil, receives gauge updates on every AddBlock and
	// gauge/counter/histogram updates on every RemoveBlockIfReady call that
	// promotes a block. A nil Metrics disables all instrumentation.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config with no logger/metrics override.
func DefaultConfig() Config {
	return Config{}
}
