package nbt

import (
	"sync"
	"sync/atomic"
)

// nodePool recycles OwnedCompound and OwnedList nodes instead of letting
// the garbage collector reclaim and reallocate them on every insert-heavy
// build of a mutable tree: two sync.Pools, a shared size counter capped
// at MaxSize, and reset-before-return semantics.
type nodePool struct {
	CompoundPool *sync.Pool
	ListPool     *sync.Pool
	MaxSize      int64
	Size         int64
}

// defaultNodePool is shared by every OwnedCompound/OwnedList constructor;
// there is no per-caller pool.
var defaultNodePool = newNodePool(256)

func newNodePool(maxSize int64) *nodePool {
	np := &nodePool{MaxSize: maxSize}
	np.CompoundPool = &sync.Pool{New: func() interface{} { return &OwnedCompound{} }}
	np.ListPool = &sync.Pool{New: func() interface{} { return &OwnedList{} }}
	return np
}

func (np *nodePool) getCompound() *OwnedCompound {
	node := np.CompoundPool.Get().(*OwnedCompound)
	if atomic.LoadInt64(&np.Size) > 0 {
		atomic.AddInt64(&np.Size, -1)
	}
	return node
}

func (np *nodePool) getList() *OwnedList {
	node := np.ListPool.Get().(*OwnedList)
	if atomic.LoadInt64(&np.Size) > 0 {
		atomic.AddInt64(&np.Size, -1)
	}
	return node
}

func (np *nodePool) putCompound(node *OwnedCompound) {
	if atomic.LoadInt64(&np.Size) < np.MaxSize {
		node.entries = node.entries[:0]
		node.index = nil
		np.CompoundPool.Put(node)
		atomic.AddInt64(&np.Size, 1)
	}
}

func (np *nodePool) putList(node *OwnedList) {
	if atomic.LoadInt64(&np.Size) < np.MaxSize {
		node.elemTag = TagEnd
		node.items = node.items[:0]
		np.ListPool.Put(node)
		atomic.AddInt64(&np.Size, 1)
	}
}
