package containers

import "errors"

var (
	ErrQueueFull  = errors.New("queue is full")
	ErrQueueEmpty = errors.New("queue is empty")
)

// RingQueue is a FIFO over a circular buffer. A queue created with a
// positive size is bounded; one created with size 0 grows as needed.
type RingQueue[T any] struct {
	data       []T
	bounded    bool
	readIndex  int
	writeIndex int
	count      int
}

// Create a new RingQueue
func NewRingQueue[T any](size int) *RingQueue[T] {
	if size <= 0 {
		return &RingQueue[T]{data: make([]T, 4)}
	}
	return &RingQueue[T]{
		data:    make([]T, size),
		bounded: true,
	}
}

// Enqueue adds an element to the queue
func (rq *RingQueue[T]) Enqueue(value T) error {
	if rq.IsFull() {
		if rq.bounded {
			return ErrQueueFull
		}
		rq.grow()
	}

	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % len(rq.data)
	rq.count++
	return nil
}

// Dequeue removes and returns the front element in the queue
func (rq *RingQueue[T]) Dequeue() (T, error) {
	var zero T
	if rq.IsEmpty() {
		return zero, ErrQueueEmpty
	}

	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % len(rq.data)
	rq.count--
	return value, nil
}

// Peek returns the front element without removing it
func (rq *RingQueue[T]) Peek() (T, error) {
	if rq.IsEmpty() {
		var zero T
		return zero, ErrQueueEmpty
	}
	return rq.data[rq.readIndex], nil
}

// IsEmpty checks if the queue is empty
func (rq *RingQueue[T]) IsEmpty() bool {
	return rq.count == 0
}

// IsFull checks if the queue is full
func (rq *RingQueue[T]) IsFull() bool {
	return rq.count == len(rq.data)
}

func (rq *RingQueue[T]) Len() int {
	return rq.count
}

// Items returns the queued elements, front first.
func (rq *RingQueue[T]) Items() []T {
	out := make([]T, 0, rq.count)
	for i := 0; i < rq.count; i++ {
		out = append(out, rq.data[(rq.readIndex+i)%len(rq.data)])
	}
	return out
}

// Clear drops every element.
func (rq *RingQueue[T]) Clear() {
	var zero T
	for i := range rq.data {
		rq.data[i] = zero
	}
	rq.readIndex, rq.writeIndex, rq.count = 0, 0, 0
}

// RemoveFunc drops every element for which drop returns true, keeping the
// order of the rest. It returns how many were removed.
func (rq *RingQueue[T]) RemoveFunc(drop func(T) bool) int {
	kept := rq.Items()[:0:0]
	for _, v := range rq.Items() {
		if !drop(v) {
			kept = append(kept, v)
		}
	}
	removed := rq.count - len(kept)
	if removed == 0 {
		return 0
	}
	rq.Clear()
	for _, v := range kept {
		rq.data[rq.writeIndex] = v
		rq.writeIndex = (rq.writeIndex + 1) % len(rq.data)
		rq.count++
	}
	return removed
}

func (rq *RingQueue[T]) grow() {
	next := make([]T, len(rq.data)*2)
	copy(next, rq.Items())
	rq.data = next
	rq.readIndex = 0
	rq.writeIndex = rq.count
}
