package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/experimental/errmon"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xcontext"
	"github.com/xaionaro-go/xsync"
)

// Serve runs every element in its own goroutine until the context is
// cancelled, the pipeline is closed or an element fails. Elements do work only while the pipeline
// is Running; an element is called when woken up by its pins, or every
// poll interval. Before returning, the pipeline is stopped.
//
// The first fatal error is returned; a cancelled context is not an error.
func (p *Pipeline) Serve(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Serve")
	defer func() { logger.Debugf(ctx, "/Serve: %v", _err) }()
	var serveDone chan struct{}
	if err := xsync.DoR1(ctx, &p.locker, func() error {
		if p.closed.IsClosed() {
			return ErrClosed{}
		}
		if !p.isServing.CompareAndSwap(false, true) {
			return ErrAlreadyServing{}
		}
		serveDone = make(chan struct{})
		p.serveDone = serveDone
		return nil
	}); err != nil {
		return err
	}
	defer p.isServing.Store(false)
	defer close(serveDone)

	order, err := p.Order()
	if err != nil {
		return err
	}

	workersCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	errCh := make(chan error, len(order))
	var wg sync.WaitGroup
	for _, e := range order {
		e := e
		wg.Add(1)
		observability.Go(workersCtx, func(ctx context.Context) {
			defer wg.Done()
			ctx = belt.WithField(ctx, "element", e.String())
			if err := p.serveElement(ctx, e); err != nil {
				errCh <- element.Error{Element: e, Err: err}
			}
		})
	}

	select {
	case <-ctx.Done():
		logger.Debugf(ctx, "Serve: context is closed: %v", ctx.Err())
	case <-p.closed.CloseChan():
		logger.Debugf(ctx, "Serve: the pipeline is closed")
	case err := <-errCh:
		_err = err
	}
	cancelFn()
	wg.Wait()

	stopCtx := xcontext.DetachDone(ctx)
	p.Stop(stopCtx)
	if _err != nil {
		errmon.ObserveErrorCtx(stopCtx, _err)
	}
	return _err
}

func (p *Pipeline) serveElement(
	ctx context.Context,
	e element.Abstract,
) error {
	ticker := time.NewTicker(p.Config.PollInterval)
	defer ticker.Stop()
	for {
		if e.GetState() == types.MediaStateRunning {
			if err := e.DoWork(ctx); err != nil {
				logger.Errorf(ctx, "DoWork failed: %v", err)
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-e.WakeChan():
		case <-ticker.C:
		}
	}
}

// IsServing returns true if Serve is running.
func (p *Pipeline) IsServing() bool {
	return p.isServing.Load()
}
