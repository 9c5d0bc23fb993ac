// Package internal contains helpers shared by avelement packages.
package internal

import (
	"context"

	"github.com/xaionaro-go/avelement/logger"
)

// Assert panics (through the logger, so the contextual fields are kept)
// if mustBeTrue is false.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	logger.Panic(ctx, "assertion failed", extraArgs)
}
