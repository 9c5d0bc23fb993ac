package types

import (
	"fmt"
	"sync/atomic"
)

// ElementID is a non-owning handle of an element. It is resolved into the
// element itself through the element registry.
type ElementID uint64

const ElementIDUndefined = ElementID(0)

var lastElementID atomic.Uint64

func NewElementID() ElementID {
	return ElementID(lastElementID.Add(1))
}

func (id ElementID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}
