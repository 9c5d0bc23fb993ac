package codec

import "fmt"

// ErrNotSupported is returned by a DecoderFactory that cannot decode the
// requested stream.
type ErrNotSupported struct {
	What string
}

func (e ErrNotSupported) Error() string {
	return fmt.Sprintf("'%s' is not supported", e.What)
}
