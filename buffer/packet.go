package buffer

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
)

// Packet is an encoded chunk of a stream.
type Packet struct {
	Base

	Data []byte

	// Pts is the raw presentation timestamp in TimeBase ticks.
	Pts      int64
	TimeBase types.Rational
}

var _ Buffer = (*Packet)(nil)

func NewPacket(owner types.ElementID) *Packet {
	return &Packet{
		Base: Base{Owner: owner},
	}
}

// SetData copies data into the packet, reusing the already allocated memory
// if it is large enough.
func (p *Packet) SetData(data []byte) {
	p.Data = append(p.Data[:0], data...)
}

func (p *Packet) Reset() {
	p.Data = p.Data[:0]
	p.Pts = 0
	p.TimeBase = types.Rational{}
	p.TimeStampValue = 0
}

func (p *Packet) Size() int {
	return len(p.Data)
}

func (p *Packet) String() string {
	return fmt.Sprintf("Packet(size:%d; pts:%d; tb:%s)", len(p.Data), p.Pts, p.TimeBase)
}
