package blockcache

import (
	"bytes"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// treeNode is one descriptor currently held in the staging tree.
//
// origLevel is the level at insertion time: the first-ever root has level
// 1, and any subsequent node's level is its parent's level + 1. origLevel
// is never decremented on promotion; the tree's rootRemovedCnt moves the
// coordinate origin instead, so a node's effective depth is always
// origLevel - rootRemovedCnt.
type treeNode struct {
	descriptor BlockDescriptor
	parent     *BlockId
	children   mapset.Set[BlockId]
	origLevel  uint32
}

func newTreeNode(desc BlockDescriptor, origLevel uint32) *treeNode {
	return &treeNode{
		descriptor: desc,
		children:   mapset.NewThreadUnsafeSet[BlockId](),
		origLevel:  origLevel,
	}
}

// stagingTree is the rooted, possibly-forked tree of descriptors that have
// been linked into the currently known chain.
type stagingTree struct {
	root           *BlockId
	nodes          map[BlockId]*treeNode
	treeDepth      uint32
	rootRemovedCnt uint32
}

func newStagingTree() *stagingTree {
	return &stagingTree{nodes: make(map[BlockId]*treeNode)}
}

// isEmpty reports whether the tree currently has no nodes.
func (t *stagingTree) isEmpty() bool {
	return t.root == nil
}

// hasNode reports whether hash is currently a node in the tree.
func (t *stagingTree) hasNode(hash BlockId) bool {
	_, ok := t.nodes[hash]
	return ok
}

// insert adds desc to the tree.
//
// Precondition: either the tree is empty, or desc.PrevHash is already a
// node in the tree. Violating this precondition with a non-empty tree is
// a programmer error and panics rather than returning an error -- the
// cache façade is responsible for only calling insert when the
// precondition holds (see AddBlock / drainCascade in cache.go).
func (t *stagingTree) insert(desc BlockDescriptor) {
	if t.isEmpty() {
		node := newTreeNode(desc, t.rootRemovedCnt+1)
		t.root = &desc.Hash
		t.nodes[desc.Hash] = node
		t.treeDepth = 1
		return
	}

	parent, ok := t.nodes[desc.PrevHash]
	if !ok {
		panic(fmt.Sprintf("blockcache: insert %v: parent %v not present in non-empty tree", desc.Hash, desc.PrevHash))
	}

	node := newTreeNode(desc, parent.origLevel+1)
	prev := desc.PrevHash
	node.parent = &prev
	parent.children.Add(desc.Hash)
	t.nodes[desc.Hash] = node

	if depth := node.origLevel - t.rootRemovedCnt; depth > t.treeDepth {
		t.treeDepth = depth
	}
}

// promoteIfReady inspects the current tree depth against threshold. If the
// depth requirement is met, the root is removed, the deepest-subtree child
// becomes the new root, and the root's other children (and their entire
// subtrees) are returned as the losing set for the caller to purge.
//
// Returns (nil, nil) if the tree is empty or has not reached threshold.
func (t *stagingTree) promoteIfReady(threshold uint32) (*BlockDescriptor, []BlockId) {
	if t.isEmpty() || t.treeDepth < threshold {
		return nil, nil
	}

	rootHash := *t.root
	rootNode, ok := t.nodes[rootHash]
	if !ok {
		panic(fmt.Sprintf("blockcache: root %v missing from nodes", rootHash))
	}
	delete(t.nodes, rootHash)

	children := rootNode.children.ToSlice()
	var losing []BlockId

	switch len(children) {
	case 0:
		// Reached when the root is the only node (treeDepth 1) and
		// threshold is 0 or 1: nothing to promote the root to, so the
		// tree becomes empty.
		// Not a consistency violation.
		t.root = nil
		t.treeDepth = 0
		promoted := rootNode.descriptor
		return &promoted, nil

	case 1:
		winner := children[0]
		winnerNode := t.nodes[winner]
		winnerNode.parent = nil
		t.root = &winner

	default:
		winner := pickDeepestChild(t, children)
		winnerNode := t.nodes[winner]
		winnerNode.parent = nil
		t.root = &winner

		losing = make([]BlockId, 0, len(children)-1)
		for _, c := range children {
			if c != winner {
				losing = append(losing, c)
			}
		}
	}

	t.treeDepth--
	t.rootRemovedCnt++

	promoted := rootNode.descriptor
	return &promoted, losing
}

// pickDeepestChild picks the child with the strictly greatest subtree
// depth. Ties (equal maximum subtree depth) are broken deterministically
// by lexicographically smallest BlockId, so repeated runs over the same
// tree produce the same winner.
func pickDeepestChild(t *stagingTree, children []BlockId) BlockId {
	best := children[0]
	bestDepth := t.subtreeDepth(best)
	for _, c := range children[1:] {
		d := t.subtreeDepth(c)
		if d > bestDepth || (d == bestDepth && bytes.Compare(c[:], best[:]) < 0) {
			best = c
			bestDepth = d
		}
	}
	return best
}

// subtreeDepth returns 1 + the maximum subtree depth over hash's children,
// or 1 for a leaf. It is invoked at most once per child of a departing
// root during promotion.
func (t *stagingTree) subtreeDepth(hash BlockId) uint32 {
	node, ok := t.nodes[hash]
	if !ok {
		panic(fmt.Sprintf("blockcache: subtreeDepth: node %v missing", hash))
	}
	var max uint32
	for _, child := range node.children.ToSlice() {
		if d := t.subtreeDepth(child); d > max {
			max = d
		}
	}
	return max + 1
}

// purge removes hash and its entire subtree from the tree, returning the
// hashes removed in no particular order. Every removed node is expected to
// already be absent from the tree's root lineage (it is a losing branch);
// the caller (cache.go) is responsible for dropping the matching payloads.
func (t *stagingTree) purge(roots []BlockId) []BlockId {
	var removed []BlockId
	stack := append([]BlockId(nil), roots...)
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := t.nodes[hash]
		if !ok {
			panic(fmt.Sprintf("blockcache: purge: node %v missing", hash))
		}
		delete(t.nodes, hash)
		removed = append(removed, hash)
		stack = append(stack, node.children.ToSlice()...)
	}
	return removed
}

// recomputedDepth recalculates the maximum effective depth from scratch by
// scanning every node. Used by property tests to cross-check treeDepth;
// never called from the public façade.
func (t *stagingTree) recomputedDepth() uint32 {
	if len(t.nodes) == 0 {
		return 0
	}
	var max uint32
	for _, n := range t.nodes {
		if n.origLevel > max {
			max = n.origLevel
		}
	}
	return max - t.rootRemovedCnt
}
