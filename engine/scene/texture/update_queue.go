package texture

import (
	"github.com/j3d/aviatrix3d-sub002/engine/containers"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
)

// updateQueue holds the sub-image writes one context has not applied yet
// for one source slot. Callers hold the owning cache entry lock.
type updateQueue struct {
	regions *containers.RingQueue[UpdateRegion]
}

func newUpdateQueue() *updateQueue {
	return &updateQueue{regions: containers.NewRingQueue[UpdateRegion](0)}
}

func (q *updateQueue) add(r UpdateRegion, strategy metadata.UpdateStrategy) {
	switch strategy {
	case metadata.UpdateStrategyRetainLast:
		q.regions.Clear()
	case metadata.UpdateStrategyDiscardOverwritten:
		q.regions.RemoveFunc(r.Contains)
	}
	// Growable queues never report full.
	_ = q.regions.Enqueue(r)
}

// restrategize reapplies strategy to what is already pending.
func (q *updateQueue) restrategize(strategy metadata.UpdateStrategy) {
	if strategy == metadata.UpdateStrategyRetainAll {
		return
	}
	pending := q.regions.Items()
	q.regions.Clear()
	for _, r := range pending {
		q.add(r, strategy)
	}
}

func (q *updateQueue) drain(apply func(UpdateRegion)) int {
	n := 0
	for !q.regions.IsEmpty() {
		r, _ := q.regions.Dequeue()
		apply(r)
		n++
	}
	return n
}

func (q *updateQueue) pending() []UpdateRegion {
	return q.regions.Items()
}

func (q *updateQueue) clear() {
	q.regions.Clear()
}
