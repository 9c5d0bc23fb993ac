package packetsource

import (
	"context"
	"io"

	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
)

type ReadResult struct {
	Data []byte

	// Pts is unset for packets without a timestamp; such packets get the
	// timestamp of the previous one.
	Pts typing.Optional[int64]
}

// Reader supplies encoded packets. ReadPacket returns io.EOF at the end
// of the stream. The returned data is copied before the next call.
type Reader interface {
	ReadPacket(ctx context.Context) (ReadResult, error)
}

// TimeBaser is optionally implemented by a Reader that knows the time base
// of its timestamps.
type TimeBaser interface {
	TimeBase() types.Rational
}

// SliceReader is a Reader over packets prepared in advance.
type SliceReader struct {
	Packets []ReadResult
	pos     int
}

var _ Reader = (*SliceReader)(nil)

func NewSliceReader(packets ...ReadResult) *SliceReader {
	return &SliceReader{Packets: packets}
}

func (r *SliceReader) ReadPacket(ctx context.Context) (ReadResult, error) {
	if r.pos >= len(r.Packets) {
		return ReadResult{}, io.EOF
	}
	result := r.Packets[r.pos]
	r.pos++
	return result, nil
}
