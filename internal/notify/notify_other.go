//go:build !linux && !windows && !darwin

package notify

import (
	"context"
	"errors"

	"github.com/go-kit/kit/log"

	"simpletimer/internal/core/model"
)

var errUnsupported = errors.New("desktop notifications unsupported on this platform")

type noopNotifier struct {
	logger log.Logger
}

func newOsSpecificNotifier(logger log.Logger, _ string) *noopNotifier {
	return &noopNotifier{logger: logger}
}

func (noopNotifier) Show(context.Context, model.Notification) error {
	return errUnsupported
}
