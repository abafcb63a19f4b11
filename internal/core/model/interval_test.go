package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		h, m, s int
		want    Interval
		wantErr bool
	}{
		{name: "plain", h: 0, m: 30, s: 0, want: Interval{Minute: 30}},
		{name: "second overflow", h: 0, m: 0, s: 125, want: Interval{Minute: 2, Second: 5}},
		{name: "minute overflow", h: 1, m: 75, s: 0, want: Interval{Hour: 2, Minute: 15}},
		{name: "cascading overflow", h: 0, m: 59, s: 60, want: Interval{Hour: 1}},
		{name: "largest", h: 23, m: 59, s: 59, want: Interval{Hour: 23, Minute: 59, Second: 59}},
		{name: "exactly one day", h: 24, wantErr: true},
		{name: "folds to one day", h: 23, m: 59, s: 60, wantErr: true},
		{name: "zero", wantErr: true},
		{name: "negative", m: -1, wantErr: true},
		{name: "hours that wrap a duration", h: 5124096, wantErr: true},
		{name: "huge minutes", m: 1 << 40, wantErr: true},
		{name: "huge seconds", s: math.MaxInt, wantErr: true},
		{name: "huge minutes and seconds", m: math.MaxInt, s: math.MaxInt, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewInterval(tt.h, tt.m, tt.s)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIntervalOutOfRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got.Second, 0)
			require.Less(t, got.Second, 60)
			require.Less(t, got.Minute, 60)
		})
	}
}

func TestIntervalFromSeconds(t *testing.T) {
	t.Parallel()

	interval, err := IntervalFromSeconds(3723)
	require.NoError(t, err)
	require.Equal(t, "01:02:03", interval.String())
	require.Equal(t, 3723, interval.Seconds())
	require.Equal(t, time.Hour+2*time.Minute+3*time.Second, interval.Duration())

	_, err = IntervalFromSeconds(int(MaxInterval / time.Second))
	require.ErrorIs(t, err, ErrIntervalOutOfRange)
}

func TestValidateRejectsLargeComponents(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Interval{Hour: 5124096}.Validate(), ErrIntervalOutOfRange)
	require.ErrorIs(t, Interval{Minute: 24 * 60}.Validate(), ErrIntervalOutOfRange)
	require.NoError(t, Interval{Minute: 90}.Validate())
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	timeout, err := ParseTimeout("", 0)
	require.NoError(t, err)
	require.Equal(t, TimeoutDefault, timeout.Mode)

	timeout, err = ParseTimeout("milliseconds", 1500)
	require.NoError(t, err)
	require.Equal(t, Timeout{Mode: TimeoutMilliseconds, Milliseconds: 1500}, timeout)

	_, err = ParseTimeout("milliseconds", 0)
	require.Error(t, err)

	_, err = ParseTimeout("forever", 0)
	require.Error(t, err)
}

func TestParsePolicyKind(t *testing.T) {
	t.Parallel()

	kind, err := ParsePolicyKind("alternating")
	require.NoError(t, err)
	require.Equal(t, PolicyAlternating, kind)

	_, err = ParsePolicyKind("pomodoro")
	require.Error(t, err)
}

func TestCheckRate(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateCheckRate(time.Nanosecond))
	require.NoError(t, ValidateCheckRate(time.Millisecond))
	require.NoError(t, ValidateCheckRate(MaxCheckRate))
	require.Error(t, ValidateCheckRate(MaxCheckRate+time.Nanosecond))

	rate, err := CheckRateFromSeconds(0.25)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, rate)

	for _, seconds := range []float64{0, -1, 0.0001, 3601, math.NaN(), math.Inf(1), 1e300} {
		_, err := CheckRateFromSeconds(seconds)
		require.Error(t, err, "seconds=%v", seconds)
	}
}
