package pipeline

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
)

type ErrCycle struct {
	Elements []types.ElementID
}

func (e ErrCycle) Error() string {
	return fmt.Sprintf("the elements %v form a cycle", e.Elements)
}

type ErrForeignElement struct {
	ID types.ElementID
}

func (e ErrForeignElement) Error() string {
	return fmt.Sprintf("element %s was not added to the pipeline", e.ID)
}

type ErrAlreadyServing struct{}

func (ErrAlreadyServing) Error() string {
	return "already serving"
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the pipeline is closed"
}
