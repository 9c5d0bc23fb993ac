package pin

import "fmt"

type ErrNotConnected struct {
	Pin fmt.Stringer
}

func (e ErrNotConnected) Error() string {
	return fmt.Sprintf("pin %s is not connected", e.Pin)
}

type ErrAlreadyConnected struct {
	Pin fmt.Stringer
}

func (e ErrAlreadyConnected) Error() string {
	return fmt.Sprintf("pin %s is already connected", e.Pin)
}

type ErrAlreadyNegotiated struct {
	Current   AudioParams
	Requested AudioParams
}

func (e ErrAlreadyNegotiated) Error() string {
	return fmt.Sprintf("the format is already negotiated as %s, cannot change it to %s", e.Current, e.Requested)
}
