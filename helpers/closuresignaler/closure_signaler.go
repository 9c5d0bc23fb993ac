// Package closuresignaler broadcasts the closure of an object to any number
// of waiters.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/avelement/logger"
)

type ClosureSignaler struct {
	once sync.Once
	ch   chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		ch: make(chan struct{}),
	}
}

// CloseChan is closed once Close is called.
func (s *ClosureSignaler) CloseChan() <-chan struct{} {
	return s.ch
}

// Close is idempotent; it reports whether this call was the one that closed.
func (s *ClosureSignaler) Close(ctx context.Context) bool {
	closed := false
	s.once.Do(func() {
		logger.Debugf(ctx, "signaling the closure")
		close(s.ch)
		closed = true
	})
	return closed
}

func (s *ClosureSignaler) IsClosed() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
