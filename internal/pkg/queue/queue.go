package queue

import (
    "errors"
    "sync"

    "webcorpus/internal/pkg/models"
)

var (
    ErrFull   = errors.New("queue is full")
    ErrEmpty  = errors.New("queue is empty")
    ErrClosed = errors.New("queue is closed")
)

// Bounded FIFO queue of stored pages awaiting extraction. The producer
// closes the queue when the store cursor is exhausted; consumers keep
// draining until Remove reports both empty and closed.
type Queue struct {
    mu       sync.Mutex
    capacity int
    closed   bool
    q        []models.StoredPage
}

// Creates an empty queue with a specified capacity
func CreateQueue(capacity int) (*Queue, error) {
    if capacity <= 0 {
        return nil, errors.New("capacity should be greater than 0")
    }
    return &Queue{
        capacity: capacity,
        q:        make([]models.StoredPage, 0, capacity),
    }, nil
}

// Inserts an item into the queue
func (q *Queue) Insert(item models.StoredPage) error {
    q.mu.Lock()
    defer q.mu.Unlock()
    if q.closed {
        return ErrClosed
    }
    if len(q.q) < q.capacity {
        q.q = append(q.q, item)
        return nil
    }
    return ErrFull
}

// Removes the oldest element from the queue. Once the queue is both
// empty and closed, returns ErrClosed and the consumer should stop.
func (q *Queue) Remove() (models.StoredPage, error) {
    q.mu.Lock()
    defer q.mu.Unlock()
    if len(q.q) > 0 {
        item := q.q[0]
        q.q = q.q[1:]
        return item, nil
    }
    if q.closed {
        return models.StoredPage{}, ErrClosed
    }
    return models.StoredPage{}, ErrEmpty
}

// Marks the queue as closed; pending items remain removable.
func (q *Queue) Close() {
    q.mu.Lock()
    defer q.mu.Unlock()
    q.closed = true
}

// Returns the number of elements in the queue
func (q *Queue) Length() int {
    q.mu.Lock()
    defer q.mu.Unlock()
    return len(q.q)
}

// Returns true if the queue is empty
func (q *Queue) IsEmpty() bool {
    return q.Length() == 0
}
