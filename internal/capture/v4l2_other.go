//go:build !linux

package capture

import (
	"context"
	"errors"

	"github.com/vedantwpatil/time-elapse-recorder/internal/config"
)

func openV4L2(context.Context, *config.Config) (Source, error) {
	return nil, errors.New("v4l2 capture is only available on linux")
}
