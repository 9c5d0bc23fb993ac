// Package buffer defines the payload units moving between elements.
//
// A buffer has exactly one owner at a time: the producer until it is sent,
// the consumer until it is marked processed, and the producer again once it
// is returned.
package buffer

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
)

type Buffer interface {
	fmt.Stringer

	// GetOwner returns the element that allocated the buffer.
	GetOwner() types.ElementID

	// TimeStamp is the presentation timestamp in seconds.
	TimeStamp() float64
	SetTimeStamp(float64)

	// Size is the payload size in bytes.
	Size() int
}

type Base struct {
	Owner          types.ElementID
	TimeStampValue float64
}

func (b *Base) GetOwner() types.ElementID {
	return b.Owner
}

func (b *Base) TimeStamp() float64 {
	return b.TimeStampValue
}

func (b *Base) SetTimeStamp(ts float64) {
	b.TimeStampValue = ts
}
