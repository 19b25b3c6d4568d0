package attendancewindow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(m int) *TimeOfDay {
	t := TimeOfDay(m)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// ===== CONCRETE SCENARIOS (default config) =====

func TestEvaluate_MorningWithoutRecord(t *testing.T) {
	eval := Evaluate(480, nil, DefaultConfig())

	assert.True(t, eval.CanCheckIn)
	assert.False(t, eval.CanCheckOut)
	assert.False(t, eval.IsLocked)
	assert.False(t, eval.ShowLateCheckinWarning)
	assertDecimal(t, "0", eval.EffectiveWorkedHours)
	assertDecimal(t, "0", eval.PreviewPayUSDT)
}

func TestEvaluate_OpenSessionAccruesUntilNow(t *testing.T) {
	record := &Record{CheckIn: tod(480)}
	eval := Evaluate(840, record, DefaultConfig())

	assert.False(t, eval.CanCheckIn)
	assert.True(t, eval.CanCheckOut)
	assert.Equal(t, "6.00", eval.EffectiveWorkedHours.StringFixed(2))
	assert.Equal(t, "12.00", eval.PreviewPayUSDT.StringFixed(2))
}

func TestEvaluate_CheckoutPastLockIsCapped(t *testing.T) {
	record := &Record{CheckIn: tod(480), CheckOut: tod(1080)}
	eval := Evaluate(1100, record, DefaultConfig())

	assert.Equal(t, "9.50", eval.EffectiveWorkedHours.StringFixed(2))
	assert.Equal(t, "19.00", eval.PreviewPayUSDT.StringFixed(2))
	assert.False(t, eval.CanCheckOut)
}

func TestEvaluate_ShortDayPaysNothing(t *testing.T) {
	record := &Record{CheckIn: tod(540), CheckOut: tod(600)}
	eval := Evaluate(700, record, DefaultConfig())

	assert.Equal(t, "1.00", eval.EffectiveWorkedHours.StringFixed(2))
	assert.Equal(t, "0.00", eval.PreviewPayUSDT.StringFixed(2))
}

func TestEvaluate_ApprovedLateCheckoutPaysHalfBelowFloor(t *testing.T) {
	record := &Record{CheckIn: tod(540), CheckOut: tod(600), LateCheckoutApproved: true}
	eval := Evaluate(700, record, DefaultConfig())

	assert.Equal(t, "1.00", eval.PreviewPayUSDT.StringFixed(2))
}

func TestEvaluate_LockedAfterCutoff(t *testing.T) {
	eval := Evaluate(1051, &Record{CheckIn: tod(480)}, DefaultConfig())

	assert.True(t, eval.IsLocked)
	assert.False(t, eval.CanCheckOut)
	// live span stops accruing at the lock
	assert.Equal(t, "9.50", eval.EffectiveWorkedHours.StringFixed(2))
}

// ===== CLOCK RULES =====

func TestCanCheckIn_InsideAndOutsideWindow(t *testing.T) {
	cfg := DefaultConfig()

	for now := 0; now < MinutesPerDay; now++ {
		want := now >= 360 && now <= 1050
		assert.Equal(t, want, CanCheckIn(TimeOfDay(now), nil, cfg), "now=%d", now)
	}
}

func TestCanCheckIn_AlreadyCheckedIn(t *testing.T) {
	cfg := DefaultConfig()
	record := &Record{CheckIn: tod(400)}

	assert.False(t, CanCheckIn(600, record, cfg))
	assert.False(t, Evaluate(600, record, cfg).CanCheckIn)
}

func TestCanCheckIn_LockDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckinLockEnabled = false

	assert.True(t, CanCheckIn(30, nil, cfg))
	assert.True(t, CanCheckIn(1400, nil, cfg))
	// the raw rule opens everything; Evaluate still refuses a second check-in
	assert.True(t, CanCheckIn(600, &Record{CheckIn: tod(400)}, cfg))
	assert.False(t, Evaluate(600, &Record{CheckIn: tod(400)}, cfg).CanCheckIn)
}

func TestLockAndCheckout(t *testing.T) {
	cfg := DefaultConfig()

	for now := 1050; now < MinutesPerDay; now++ {
		assert.True(t, IsLocked(TimeOfDay(now), cfg), "now=%d", now)
		assert.False(t, CanCheckOut(TimeOfDay(now), cfg), "now=%d", now)
	}
	assert.False(t, IsLocked(1049, cfg))
	assert.True(t, CanCheckOut(1049, cfg))
}

func TestCheckoutLockDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckoutLockEnabled = false

	assert.True(t, CanCheckOut(1439, cfg))
	assert.False(t, IsLocked(1439, cfg))
	assert.False(t, IsOvertime(1060, cfg))

	// no lock means no cap on the span, only the daily ceiling
	assert.Equal(t, "10.00", EffectiveWorkedHours(480, 1080, cfg).StringFixed(2))
}

func TestIsOvertime_DefaultWindowIsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	for now := 0; now < MinutesPerDay; now++ {
		assert.False(t, IsOvertime(TimeOfDay(now), cfg), "now=%d", now)
	}
}

func TestIsOvertime_WidenedLock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckoutLock = 1140 // 19:00

	assert.False(t, IsOvertime(1049, cfg))
	assert.True(t, IsOvertime(1050, cfg))
	assert.True(t, IsOvertime(1139, cfg))
	assert.False(t, IsOvertime(1140, cfg))
	assert.True(t, IsLocked(1140, cfg))
}

func TestShouldShowLateCheckinWarning(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, ShouldShowLateCheckinWarning(1050, nil, cfg))
	assert.True(t, ShouldShowLateCheckinWarning(1051, nil, cfg))
	assert.False(t, ShouldShowLateCheckinWarning(1051, &Record{CheckIn: tod(500)}, cfg))

	cfg.CheckinLockEnabled = false
	assert.False(t, ShouldShowLateCheckinWarning(1200, nil, cfg))
}

// ===== HOURS & PAY =====

func TestEffectiveWorkedHours_MonotonicUntilCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckoutLockEnabled = false

	prev := decimal.Zero
	for end := 0; end < MinutesPerDay; end++ {
		got := EffectiveWorkedHours(60, TimeOfDay(end), cfg)
		require.True(t, got.GreaterThanOrEqual(prev), "end=%d got=%s prev=%s", end, got, prev)
		require.True(t, got.LessThanOrEqual(cfg.MaxPaidHoursPerDay))
		require.False(t, got.IsNegative())
		prev = got
	}
	assertDecimal(t, "11.5", EffectiveWorkedHours(60, 60+11*60+30, cfg))
	assertDecimal(t, "11.5", EffectiveWorkedHours(60, 1439, cfg))
}

func TestEffectiveWorkedHours_NegativeSpanIsZero(t *testing.T) {
	cfg := DefaultConfig()

	assertDecimal(t, "0", EffectiveWorkedHours(600, 540, cfg))

	eval := Evaluate(700, &Record{CheckIn: tod(600), CheckOut: tod(540)}, cfg)
	assertDecimal(t, "0", eval.EffectiveWorkedHours)
	assertDecimal(t, "0", eval.PreviewPayUSDT)
}

func TestEffectiveWorkedHours_RoundsToCents(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.17", EffectiveWorkedHours(480, 490, cfg).String())
	assert.Equal(t, "0.08", EffectiveWorkedHours(480, 485, cfg).String())
	assert.Equal(t, "0.33", EffectiveWorkedHours(480, 500, cfg).String())
}

func TestPreviewPay(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		hours    string
		approved bool
		want     string
	}{
		{"0", false, "0"},
		{"4.99", false, "0"},
		{"5", false, "10"},
		{"7.25", false, "14.5"},
		{"11.5", false, "23"},
		{"0", true, "0"},
		{"1", true, "1"},
		{"4.99", true, "4.99"},
		{"8", true, "8"},
	}

	for _, tt := range tests {
		got := PreviewPay(dec(tt.hours), cfg, tt.approved)
		assertDecimal(t, tt.want, got)
	}
}

func TestPreviewPay_CustomRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HourlyRateUSDT = dec("3.5")
	cfg.MinPaidHoursPerDay = dec("2")

	assertDecimal(t, "0", PreviewPay(dec("1.99"), cfg, false))
	assertDecimal(t, "7", PreviewPay(dec("2"), cfg, false))
	assertDecimal(t, "1.75", PreviewPay(dec("1"), cfg, true))
}

// ===== TOTALITY =====

func TestEvaluate_OutOfRangeNowWraps(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, Evaluate(480, nil, cfg), Evaluate(480+MinutesPerDay, nil, cfg))
	assert.Equal(t, Evaluate(1380, nil, cfg), Evaluate(-60, nil, cfg))
}

func TestEvaluate_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	record := &Record{CheckIn: tod(455), LateCheckoutApproved: true}

	first := Evaluate(913, record, cfg)
	second := Evaluate(913, record, cfg)

	assert.Equal(t, first, second)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.CheckinStart = 1000
	cfg.CheckinEnd = 900
	cfg.CheckoutLock = 1500
	cfg.HourlyRateUSDT = dec("-1")

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkin_end")
	assert.Contains(t, err.Error(), "checkout_lock")
	assert.Contains(t, err.Error(), "hourly_rate_usdt")
}
