package blockcache

// pendingStore is a thin owning map from block hash to payload. It has no
// observable behavior beyond insert/has/take/len -- every other component
// refers to blocks by BlockId and resolves payloads through here.
//
// Duplicate inserts for the same hash overwrite the previous payload.
// Callers of the cache must not submit duplicate payloads for the same
// block, but the store itself stays consistent if they do.
type pendingStore struct {
	payloads map[BlockId]Payload
}

func newPendingStore() *pendingStore {
	return &pendingStore{payloads: make(map[BlockId]Payload)}
}

// insert stores payload under hash, overwriting any previous entry.
func (s *pendingStore) insert(hash BlockId, payload Payload) {
	s.payloads[hash] = payload
}

// has reports whether hash currently has a payload on file.
func (s *pendingStore) has(hash BlockId) bool {
	_, ok := s.payloads[hash]
	return ok
}

// take removes and returns the payload for hash, if present.
func (s *pendingStore) take(hash BlockId) (Payload, bool) {
	p, ok := s.payloads[hash]
	if ok {
		delete(s.payloads, hash)
	}
	return p, ok
}

// len returns the number of payloads currently held.
func (s *pendingStore) len() int {
	return len(s.payloads)
}
