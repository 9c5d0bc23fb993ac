package types

import (
	"context"
)

// Closer is implemented by resources released together with their element.
type Closer interface {
	Close(context.Context) error
}
