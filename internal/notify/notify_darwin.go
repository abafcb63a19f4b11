//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"simpletimer/internal/core/model"
)

type osascriptNotifier struct {
	appName string
	logger  log.Logger
}

func newOsSpecificNotifier(logger log.Logger, appName string) *osascriptNotifier {
	return &osascriptNotifier{appName: appName, logger: logger}
}

func (o *osascriptNotifier) Show(ctx context.Context, n model.Notification) error {
	script := fmt.Sprintf("display notification %s with title %s subtitle %s",
		strconv.Quote(n.Body), strconv.Quote(appNameOr(n, o.appName)), strconv.Quote(n.Summary))

	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		level.Error(o.logger).Log("msg", "could not send notification via osascript", "output", string(out), "err", err)
		return fmt.Errorf("osascript: %s: %w", string(out), err)
	}
	return nil
}
