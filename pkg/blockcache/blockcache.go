// Package blockcache implements a reorg-tolerant block staging cache for a
// chain-ingestion pipeline. Blocks arriving out of order are quarantined in
// a pending table, an out-of-order holding area, or an in-memory fork tree
// until they are deep enough to be considered confirmed, at which point the
// cache emits one confirmed block per call and drops the losing branches
// that competed with it.
//
// The cache does not validate block contents, transactions, proof of work,
// or chain rules, does not persist its state, and does not perform network
// I/O. Fork choice is approximated by subtree depth rather than
// accumulated work; callers that need heaviest-work semantics must layer
// that on top.
package blockcache

import "github.com/ethereum/go-ethereum/common"

// BlockId is a fixed-width opaque block identifier: comparable, hashable,
// and usable directly as a map key. It carries no chain-rule semantics of
// its own -- the cache never inspects it beyond equality and hashing.
type BlockId = common.Hash

// BlockDescriptor is the lightweight {hash, prev_hash} pair extracted from
// a block by an external collaborator (the block decoder). It is immutable
// once created.
type BlockDescriptor struct {
	Hash     BlockId
	PrevHash BlockId
}

// Payload is the opaque full block payload the cache stores on behalf of
// its caller. Anything that knows its own hash and its parent's hash can
// be cached; the cache never looks past those two fields.
type Payload interface {
	BlockHash() BlockId
	ParentHash() BlockId
}

func descriptorOf(p Payload) BlockDescriptor {
	return BlockDescriptor{Hash: p.BlockHash(), PrevHash: p.ParentHash()}
}
