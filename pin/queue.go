package pin

import (
	"context"

	"github.com/xaionaro-go/xsync"
)

// queue is a FIFO safe for one pushing and one popping goroutine (or more).
type queue[T any] struct {
	locker xsync.Mutex
	items  []T
	head   int
}

func (q *queue[T]) Push(ctx context.Context, items ...T) {
	if len(items) == 0 {
		return
	}
	q.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		if q.head > 0 && q.head == len(q.items) {
			clear(q.items)
			q.items = q.items[:0]
			q.head = 0
		}
		q.items = append(q.items, items...)
	})
}

func (q *queue[T]) TryPop(ctx context.Context) (T, bool) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &q.locker, func() (T, bool) {
		var zero T
		if q.head >= len(q.items) {
			return zero, false
		}
		item := q.items[q.head]
		q.items[q.head] = zero
		q.head++
		if q.head == len(q.items) {
			q.items = q.items[:0]
			q.head = 0
		}
		return item, true
	})
}

// PopAll removes and returns all the queued items in order.
func (q *queue[T]) PopAll(ctx context.Context) []T {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() []T {
		if q.head >= len(q.items) {
			return nil
		}
		result := make([]T, len(q.items)-q.head)
		copy(result, q.items[q.head:])
		clear(q.items)
		q.items = q.items[:0]
		q.head = 0
		return result
	})
}

func (q *queue[T]) Len(ctx context.Context) int {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() int {
		return len(q.items) - q.head
	})
}
