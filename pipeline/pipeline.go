// Package pipeline schedules a set of connected elements.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/helpers/closuresignaler"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

type Link struct {
	Out *pin.OutPin
	In  *pin.InPin
}

type Pipeline struct {
	Config config

	locker    xsync.Mutex
	elements  []element.Abstract
	byID      map[types.ElementID]element.Abstract
	links     []Link
	state     types.MediaState
	closer    *astikit.Closer
	closeCtx  context.Context
	closed    *closuresignaler.ClosureSignaler
	isServing atomic.Bool
	serveDone chan struct{}
}

func New(opts ...Option) *Pipeline {
	return &Pipeline{
		Config: Options(opts).config(),
		byID:   map[types.ElementID]element.Abstract{},
		closer: astikit.NewCloser(),
		closed: closuresignaler.New(),
	}
}

// Add registers and initializes the elements.
func (p *Pipeline) Add(
	ctx context.Context,
	elements ...element.Abstract,
) (_err error) {
	logger.Debugf(ctx, "Add(%v)", elements)
	defer func() { logger.Debugf(ctx, "/Add(%v): %v", elements, _err) }()
	return xsync.DoR1(ctx, &p.locker, func() error {
		if p.closed.IsClosed() {
			return ErrClosed{}
		}
		for _, e := range elements {
			if _, ok := p.byID[e.GetID()]; ok {
				continue
			}
			if err := p.Config.Registry.Register(ctx, e); err != nil {
				return element.Error{Element: e, Err: err}
			}
			if err := e.Initialize(ctx); err != nil {
				p.Config.Registry.Unregister(ctx, e.GetID())
				return element.Error{Element: e, Err: fmt.Errorf("unable to initialize: %w", err)}
			}
			p.elements = append(p.elements, e)
			p.byID[e.GetID()] = e
			p.closer.Add(func() {
				// the context of Add may be long gone by now
				ctx := p.closeCtx
				if err := e.Close(ctx); err != nil {
					logger.Errorf(ctx, "unable to close %s: %v", e, err)
				}
				p.Config.Registry.Unregister(ctx, e.GetID())
			})
		}
		return nil
	})
}

// Connect links an output pin to an input pin of elements of this pipeline.
func (p *Pipeline) Connect(
	ctx context.Context,
	out *pin.OutPin,
	in *pin.InPin,
) (_err error) {
	logger.Debugf(ctx, "Connect(%s, %s)", out, in)
	defer func() { logger.Debugf(ctx, "/Connect(%s, %s): %v", out, in, _err) }()
	return xsync.DoR1(ctx, &p.locker, func() error {
		for _, id := range []types.ElementID{out.Owner(), in.Owner()} {
			if _, ok := p.byID[id]; !ok {
				return ErrForeignElement{ID: id}
			}
		}
		if err := out.Connect(ctx, in); err != nil {
			return err
		}
		p.links = append(p.links, Link{Out: out, In: in})
		return nil
	})
}

// ConnectElements links the first free output pin of "from" to the first
// free input pin of "to".
func (p *Pipeline) ConnectElements(
	ctx context.Context,
	from, to element.Abstract,
) error {
	var (
		out *pin.OutPin
		in  *pin.InPin
	)
	for _, candidate := range from.OutputPins() {
		if !candidate.IsConnected(ctx) {
			out = candidate
			break
		}
	}
	for _, candidate := range to.InputPins() {
		if !candidate.IsConnected(ctx) {
			in = candidate
			break
		}
	}
	if out == nil {
		return fmt.Errorf("%s has no free output pins", from)
	}
	if in == nil {
		return fmt.Errorf("%s has no free input pins", to)
	}
	return p.Connect(ctx, out, in)
}

func (p *Pipeline) Elements() []element.Abstract {
	ctx := context.TODO()
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() []element.Abstract {
		return slices.Clone(p.elements)
	})
}

func (p *Pipeline) Links() []Link {
	ctx := context.TODO()
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() []Link {
		return slices.Clone(p.links)
	})
}

func (p *Pipeline) GetState() types.MediaState {
	ctx := context.TODO()
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() types.MediaState {
		return p.state
	})
}

// SetState moves all the elements to the state, passing through the
// intermediate states. Elements are always switched downstream-first, so a
// stopping producer reclaims the buffers its consumers have just handed
// back. On any error all the elements are stopped.
func (p *Pipeline) SetState(
	ctx context.Context,
	newState types.MediaState,
) (_err error) {
	logger.Debugf(ctx, "SetState(%s)", newState)
	defer func() { logger.Debugf(ctx, "/SetState(%s): %v", newState, _err) }()
	return xsync.DoA2R1(ctx, &p.locker, p.setStateLocked, ctx, newState)
}

func (p *Pipeline) setStateLocked(
	ctx context.Context,
	newState types.MediaState,
) error {
	order, err := p.orderLocked()
	if err != nil {
		return err
	}
	downstreamFirst := slices.Clone(order)
	slices.Reverse(downstreamFirst)
	for _, next := range element.TransitionPath(p.state, newState) {
		for _, e := range downstreamFirst {
			if err := e.ChangeState(ctx, p.state, next); err != nil {
				p.stopLocked(ctx)
				return element.Error{Element: e, Err: err}
			}
		}
		p.state = next
	}
	return nil
}

func (p *Pipeline) stopLocked(ctx context.Context) {
	order, err := p.orderLocked()
	if err != nil {
		order = p.elements
	}
	order = slices.Clone(order)
	slices.Reverse(order)
	for _, e := range order {
		if err := e.ChangeState(ctx, e.GetState(), types.MediaStateStopped); err != nil {
			logger.Errorf(ctx, "unable to stop %s: %v", e, err)
		}
	}
	p.state = types.MediaStateStopped
}

// Stop moves all the elements to Stopped.
func (p *Pipeline) Stop(ctx context.Context) {
	p.locker.Do(ctx, func() {
		p.stopLocked(ctx)
	})
}

// Step calls DoWork once on every element in the topological order. It
// does nothing unless the pipeline is Running. A fatal error stops the
// pipeline.
func (p *Pipeline) Step(ctx context.Context) error {
	var (
		order []element.Abstract
		err   error
	)
	p.locker.Do(ctx, func() {
		if p.state != types.MediaStateRunning {
			return
		}
		order, err = p.orderLocked()
	})
	if err != nil {
		return err
	}
	for _, e := range order {
		if err := e.DoWork(ctx); err != nil {
			logger.Errorf(ctx, "%s failed: %v", e, err)
			p.Stop(ctx)
			return element.Error{Element: e, Err: err}
		}
	}
	return nil
}

// String returns the elements in the topological order.
func (p *Pipeline) String() string {
	order, err := p.Order()
	if err != nil {
		order = p.Elements()
	}
	names := make([]string, 0, len(order))
	for _, e := range order {
		names = append(names, e.String())
	}
	return strings.Join(names, " -> ")
}

// DotString returns the graph in the Graphviz format.
func (p *Pipeline) DotString(withStats bool) string {
	var result strings.Builder
	fmt.Fprintf(&result, "digraph Pipeline {\n")
	for _, e := range p.Elements() {
		fmt.Fprintf(&result, "\tnode_%d [label=\"%s\"]\n", uint64(e.GetID()), sanitizeString(e.String()))
	}
	for _, link := range p.Links() {
		if !withStats {
			fmt.Fprintf(&result, "\tnode_%d -> node_%d\n", uint64(link.Out.Owner()), uint64(link.In.Owner()))
			continue
		}
		stats := linkStatistics(link)
		fmt.Fprintf(
			&result,
			"\tnode_%d -> node_%d [label=\"sent:%d in-flight:%d\"]\n",
			uint64(link.Out.Owner()), uint64(link.In.Owner()),
			stats.Sent.Count, stats.InFlight(),
		)
	}
	fmt.Fprintf(&result, "}\n")
	return result.String()
}

func sanitizeString(s string) string {
	s = strings.ReplaceAll(s, `"`, ``)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", ``)
	return s
}

// Close stops the pipeline, closes the elements and unregisters them.
// If the pipeline is being served, Close waits for Serve to return first.
// Only the first call has an effect.
func (p *Pipeline) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	var (
		serveDone chan struct{}
		isFirst   bool
	)
	p.locker.Do(ctx, func() {
		isFirst = p.closed.Close(ctx)
		serveDone = p.serveDone
	})
	if !isFirst {
		return nil
	}
	if serveDone != nil {
		select {
		case <-serveDone:
		default:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-serveDone:
			}
		}
	}
	p.Stop(ctx)
	p.closeCtx = ctx
	return p.closer.Close()
}
