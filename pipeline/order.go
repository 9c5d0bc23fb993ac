package pipeline

import (
	"context"

	"github.com/go-ng/container/heap"
	"github.com/go-ng/xsort"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

// Order returns the elements so that every producer precedes its consumers.
// Independent elements are ordered by ID.
func (p *Pipeline) Order() ([]element.Abstract, error) {
	ctx := context.TODO()
	var (
		result []element.Abstract
		err    error
	)
	p.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		result, err = p.orderLocked()
	})
	return result, err
}

func (p *Pipeline) orderLocked() ([]element.Abstract, error) {
	inDegree := make(map[types.ElementID]int, len(p.elements))
	consumers := map[types.ElementID][]types.ElementID{}
	for _, e := range p.elements {
		inDegree[e.GetID()] = 0
	}
	for _, link := range p.links {
		from, to := link.Out.Owner(), link.In.Owner()
		consumers[from] = append(consumers[from], to)
		inDegree[to]++
	}

	var ready xsort.OrderedAsc[types.ElementID]
	for id, degree := range inDegree {
		if degree == 0 {
			heap.Push(&ready, id)
		}
	}

	result := make([]element.Abstract, 0, len(p.elements))
	for len(ready) > 0 {
		id := heap.Pop(&ready)
		result = append(result, p.byID[id])
		for _, consumer := range consumers[id] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				heap.Push(&ready, consumer)
			}
		}
	}

	if len(result) != len(p.elements) {
		var cycle []types.ElementID
		for _, e := range p.elements {
			if inDegree[e.GetID()] > 0 {
				cycle = append(cycle, e.GetID())
			}
		}
		return nil, ErrCycle{Elements: cycle}
	}
	return result, nil
}
