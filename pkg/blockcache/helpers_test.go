package blockcache

import "github.com/ethereum/go-ethereum/common"

// testBlock is the simplest possible Payload implementation: a tag string
// for both this block's hash and its parent's hash.
type testBlock struct {
	hash BlockId
	prev BlockId
}

func (b *testBlock) BlockHash() BlockId  { return b.hash }
func (b *testBlock) ParentHash() BlockId { return b.prev }

func tagHash(tag string) BlockId {
	return common.BytesToHash([]byte(tag))
}

func newTestBlock(hash, prev string) *testBlock {
	return &testBlock{hash: tagHash(hash), prev: tagHash(prev)}
}
