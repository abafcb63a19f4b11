package window

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/require"

	"simpletimer/internal/core/model"
	"simpletimer/internal/core/timekeeper"
)

func TestParseFieldsRoundTrip(t *testing.T) {
	t.Parallel()

	base := DefaultSettings("Simple Timer")
	base.Interval = model.MustInterval(1, 2, 3)
	base.CheckRate = 5 * time.Second

	parsed, err := parseFields(base, fieldsFromSettings(base))
	require.NoError(t, err)
	require.Equal(t, base, parsed)
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	base := DefaultSettings("Simple Timer")
	valid := fieldsFromSettings(base)

	tests := []struct {
		name    string
		edit    func(*formFields)
		wantErr bool
		check   func(*testing.T, Settings)
	}{
		{
			name: "interval folds overflow",
			edit: func(fields *formFields) {
				fields.Hours, fields.Minutes, fields.Seconds = "0", "0", "90"
			},
			check: func(t *testing.T, settings Settings) {
				require.Equal(t, model.MustInterval(0, 1, 30), settings.Interval)
			},
		},
		{
			name: "blank fields count as zero",
			edit: func(fields *formFields) {
				fields.Hours, fields.Minutes, fields.Seconds = "", " 45 ", ""
			},
			check: func(t *testing.T, settings Settings) {
				require.Equal(t, model.MustInterval(0, 45, 0), settings.Interval)
			},
		},
		{
			name: "zero interval",
			edit: func(fields *formFields) {
				fields.Hours, fields.Minutes, fields.Seconds = "0", "0", "0"
			},
			wantErr: true,
		},
		{
			name: "a full day",
			edit: func(fields *formFields) {
				fields.Hours, fields.Minutes, fields.Seconds = "24", "0", "0"
			},
			wantErr: true,
		},
		{
			name:    "not a number",
			edit:    func(fields *formFields) { fields.Minutes = "ten" },
			wantErr: true,
		},
		{
			name:    "negative",
			edit:    func(fields *formFields) { fields.Seconds = "-1" },
			wantErr: true,
		},
		{
			name:    "unknown policy",
			edit:    func(fields *formFields) { fields.Policy = "random" },
			wantErr: true,
		},
		{
			name: "alternating needs both halves",
			edit: func(fields *formFields) {
				fields.Policy = string(model.PolicyAlternating)
				fields.BreakMinutes = "0"
			},
			wantErr: true,
		},
		{
			name: "alternating",
			edit: func(fields *formFields) {
				fields.Policy = string(model.PolicyAlternating)
				fields.WorkMinutes, fields.BreakMinutes = "50", "10"
			},
			check: func(t *testing.T, settings Settings) {
				require.Equal(t, model.PolicyAlternating, settings.Policy)
				require.Equal(t, 50*time.Minute, settings.WorkDuration)
				require.Equal(t, 10*time.Minute, settings.BreakDuration)
			},
		},
		{
			name:    "huge work minutes with fixed policy",
			edit:    func(fields *formFields) { fields.WorkMinutes = "153722867280912931" },
			wantErr: true,
		},
		{
			name:    "hours that wrap a duration",
			edit:    func(fields *formFields) { fields.Hours = "5124096" },
			wantErr: true,
		},
		{
			name: "sub-second check rate",
			edit: func(fields *formFields) { fields.CheckRateSeconds = "0.25" },
			check: func(t *testing.T, settings Settings) {
				require.Equal(t, 250*time.Millisecond, settings.CheckRate)
			},
		},
		{
			name:    "check rate below a millisecond",
			edit:    func(fields *formFields) { fields.CheckRateSeconds = "0.0001" },
			wantErr: true,
		},
		{
			name:    "check rate zero",
			edit:    func(fields *formFields) { fields.CheckRateSeconds = "0" },
			wantErr: true,
		},
		{
			name:    "unknown theme",
			edit:    func(fields *formFields) { fields.Theme = "solarized" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fields := valid
			tt.edit(&fields)
			settings, err := parseFields(base, fields)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, base, settings)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, settings)
			}
		})
	}
}

func TestSubSecondCheckRateSurvivesTheForm(t *testing.T) {
	t.Parallel()

	base := DefaultSettings("Simple Timer")
	base.CheckRate = 500 * time.Millisecond

	fields := fieldsFromSettings(base)
	require.Equal(t, "0.5", fields.CheckRateSeconds)

	parsed, err := parseFields(base, fields)
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, parsed.CheckRate)
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00:00", FormatRemaining(-time.Second))
	require.Equal(t, "00:00:01", FormatRemaining(200*time.Millisecond))
	require.Equal(t, "00:29:59", FormatRemaining(29*time.Minute+59*time.Second))
	require.Equal(t, "23:59:59", FormatRemaining(24*time.Hour-time.Second))
}

func TestDescribeStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Paused", DescribeStatus(timekeeper.Status{}))
	require.Equal(t, "Running: every 00:30:00", DescribeStatus(timekeeper.Status{
		Enabled:  true,
		Interval: model.MustInterval(0, 30, 0),
		Policy:   model.PolicyFixed,
	}))
	require.Equal(t, "Running: break (00:05:00)", DescribeStatus(timekeeper.Status{
		Enabled: true,
		Policy:  model.PolicyAlternating,
		Phase:   timekeeper.PhaseBreak,
		Current: 5 * time.Minute,
	}))
}

func TestThemePinsVariant(t *testing.T) {
	t.Parallel()

	dark := Theme(ThemeDark).Color(theme.ColorNameBackground, theme.VariantLight)
	light := Theme(ThemeLight).Color(theme.ColorNameBackground, theme.VariantDark)
	require.Equal(t, theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark), dark)
	require.Equal(t, theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight), light)
}
