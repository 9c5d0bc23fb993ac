package element

import (
	"context"

	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

// Registry resolves element IDs (as stored in pins) into elements.
type Registry struct {
	elements xsync.Map[types.ElementID, Abstract]
}

var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(ctx context.Context, e Abstract) error {
	id := e.GetID()
	if prev, ok := r.elements.Load(id); ok {
		if prev == e {
			return nil
		}
		return ErrAlreadyRegistered{ID: id}
	}
	logger.Debugf(ctx, "registering %s", e)
	r.elements.Store(id, e)
	return nil
}

func (r *Registry) Unregister(ctx context.Context, id types.ElementID) {
	if _, ok := r.elements.LoadAndDelete(id); ok {
		logger.Debugf(ctx, "unregistered %s", id)
	}
}

func (r *Registry) Lookup(id types.ElementID) (Abstract, bool) {
	return r.elements.Load(id)
}

// OwnerOf returns the element that owns the pin.
func (r *Registry) OwnerOf(p pin.Abstract) (Abstract, error) {
	e, ok := r.Lookup(p.Owner())
	if !ok {
		return nil, ErrNotRegistered{ID: p.Owner()}
	}
	return e, nil
}

// Elements returns all the registered elements in no particular order.
func (r *Registry) Elements() []Abstract {
	var result []Abstract
	r.elements.Range(func(_ types.ElementID, e Abstract) bool {
		result = append(result, e)
		return true
	})
	return result
}

func Register(ctx context.Context, e Abstract) error {
	return DefaultRegistry.Register(ctx, e)
}

func Unregister(ctx context.Context, id types.ElementID) {
	DefaultRegistry.Unregister(ctx, id)
}

func Lookup(id types.ElementID) (Abstract, bool) {
	return DefaultRegistry.Lookup(id)
}

func OwnerOf(p pin.Abstract) (Abstract, error) {
	return DefaultRegistry.OwnerOf(p)
}
