package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpletimer/internal/core/model"
)

func TestExpireTimeout(t *testing.T) {
	t.Parallel()

	require.Equal(t, int32(-1), expireTimeout(model.Timeout{Mode: model.TimeoutDefault}))
	require.Equal(t, int32(-1), expireTimeout(model.Timeout{}))
	require.Equal(t, int32(0), expireTimeout(model.Timeout{Mode: model.TimeoutNever}))
	require.Equal(t, int32(2500), expireTimeout(model.Timeout{Mode: model.TimeoutMilliseconds, Milliseconds: 2500}))
}

func TestToastDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", toastDuration(model.Timeout{Mode: model.TimeoutDefault}))
	require.Equal(t, "long", toastDuration(model.Timeout{Mode: model.TimeoutNever}))
	require.Equal(t, "short", toastDuration(model.Timeout{Mode: model.TimeoutMilliseconds, Milliseconds: 3000}))
	require.Equal(t, "long", toastDuration(model.Timeout{Mode: model.TimeoutMilliseconds, Milliseconds: 25000}))
}

func TestAppNameOr(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Simple Timer", appNameOr(model.Notification{}, "Simple Timer"))
	require.Equal(t, "Custom", appNameOr(model.Notification{AppName: "Custom"}, "Simple Timer"))
}
