package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/expiry"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
)

var utc8 = clock.Zone(8 * time.Hour)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestComputeMilkScenario(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")

	t.Run("Should warn three days before expiry", func(t *testing.T) {
		now := time.Date(2024, 1, 8, 0, 0, 0, 0, utc8)
		got := calc.Compute(production, 10, 3, now)

		assert.Equal(t, "2024-01-11", got.ExpiryDate.String())
		assert.Equal(t, "2024-01-08", got.ReminderDate.String())
		assert.Equal(t, 3, got.RemainingDays)
		assert.Equal(t, model.StatusWarning, got.Status)
		assert.Equal(t, 30, got.ShelfLifePercent)
	})

	t.Run("Should expire after the expiry date", func(t *testing.T) {
		now := time.Date(2024, 1, 12, 0, 0, 0, 0, utc8)
		got := calc.Compute(production, 10, 3, now)

		assert.Equal(t, -1, got.RemainingDays)
		assert.Equal(t, model.StatusExpired, got.Status)
		assert.Equal(t, 0, got.ShelfLifePercent)
	})
}

func TestComputeRemainingDaysRounding(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "midnight of expiry day", now: time.Date(2024, 1, 11, 0, 0, 0, 0, utc8), want: 0},
		{name: "noon of expiry day", now: time.Date(2024, 1, 11, 12, 0, 0, 0, utc8), want: 0},
		{name: "last second of expiry day", now: time.Date(2024, 1, 11, 23, 59, 59, 0, utc8), want: 0},
		{name: "one nanosecond before expiry day", now: time.Date(2024, 1, 10, 23, 59, 59, 999999999, utc8), want: 1},
		{name: "morning of the day before", now: time.Date(2024, 1, 10, 8, 0, 0, 0, utc8), want: 1},
		{name: "midnight of the day before", now: time.Date(2024, 1, 10, 0, 0, 0, 0, utc8), want: 1},
		{name: "day after expiry", now: time.Date(2024, 1, 12, 18, 0, 0, 0, utc8), want: -1},
		{name: "same instant given in UTC", now: time.Date(2024, 1, 7, 16, 0, 0, 0, time.UTC), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Compute(production, 10, 3, tt.now)
			assert.Equal(t, tt.want, got.RemainingDays)
		})
	}
}

func TestComputeStatusBoundaries(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	const shelfLife, reminder = 30, 5
	expiryDate := production.AddDays(shelfLife)

	at := func(remaining int) time.Time {
		return expiryDate.AddDays(-remaining).Midnight(utc8)
	}

	assert.Equal(t, model.StatusExpired, calc.Compute(production, shelfLife, reminder, at(0)).Status)
	assert.Equal(t, model.StatusWarning, calc.Compute(production, shelfLife, reminder, at(1)).Status)
	assert.Equal(t, model.StatusWarning, calc.Compute(production, shelfLife, reminder, at(reminder)).Status)
	assert.Equal(t, model.StatusNormal, calc.Compute(production, shelfLife, reminder, at(reminder+1)).Status)
}

func TestComputeZeroReminderWindow(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")

	dayBefore := calc.Compute(production, 10, 0, time.Date(2024, 1, 10, 0, 0, 0, 0, utc8))
	onExpiry := calc.Compute(production, 10, 0, time.Date(2024, 1, 11, 0, 0, 0, 0, utc8))

	assert.Equal(t, model.StatusNormal, dayBefore.Status)
	assert.Equal(t, model.StatusExpired, onExpiry.Status)
}

func TestComputeUnsetShelfLife(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, utc8)

	for _, shelfLife := range []int{0, -3} {
		got := calc.Compute(production, shelfLife, 3, now)
		assert.Equal(t, model.StatusUnset, got.Status)
		assert.True(t, got.ExpiryDate.IsZero())
		assert.Zero(t, got.RemainingDays)
	}
}

func TestComputeIndependentOfHostZone(t *testing.T) {
	production := mustDate(t, "2024-03-30")
	now := time.Date(2024, 3, 31, 3, 0, 0, 0, time.UTC)

	original := time.Local
	t.Cleanup(func() { time.Local = original })

	var results []model.Expiry
	for _, zone := range []string{"UTC", "America/Los_Angeles", "Pacific/Kiritimati", "Europe/Berlin"} {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Skipf("tzdata unavailable: %v", err)
		}
		time.Local = loc

		calc := expiry.NewCalculator(utc8)
		results = append(results, calc.Compute(production, 45, 7, now.In(loc)))
	}

	for _, got := range results[1:] {
		assert.Equal(t, results[0], got)
	}
	assert.Equal(t, "2024-05-14", results[0].ExpiryDate.String())
}

func TestComputeExpiryDateProperty(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, utc8)
	start := mustDate(t, "2023-12-20")

	for offset := 0; offset < 400; offset += 7 {
		production := start.AddDays(offset)
		for _, shelfLife := range []int{1, 2, 28, 29, 30, 31, 365, 366} {
			got := calc.Compute(production, shelfLife, 3, now)
			want := production.Midnight(time.UTC).AddDate(0, 0, shelfLife)

			assert.Equal(t, want.Format(model.DateLayout), got.ExpiryDate.String())
			assert.Equal(t, shelfLife, production.DaysUntil(got.ExpiryDate))
		}
	}
}

func TestComputeMonotonicInNow(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	now := time.Date(2023, 12, 25, 0, 0, 0, 0, utc8)

	prev := calc.Compute(production, 20, 4, now).RemainingDays
	for i := 0; i < 24*40; i++ {
		now = now.Add(73 * time.Minute)
		cur := calc.Compute(production, 20, 4, now).RemainingDays
		require.LessOrEqual(t, cur, prev, "remaining days increased at %s", now)
		prev = cur
	}
}

func TestComputeIsPure(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	now := time.Date(2024, 1, 9, 13, 37, 0, 0, utc8)

	assert.Equal(t, calc.Compute(production, 10, 3, now), calc.Compute(production, 10, 3, now))
}

func TestRemainingDaysMatchesCalendarDistance(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, utc8)

	for h := 0; h < 24*20; h += 5 {
		now := base.Add(time.Duration(h) * time.Hour)
		got := calc.Compute(production, 10, 3, now)
		assert.Equal(t, calc.Today(now).DaysUntil(got.ExpiryDate), got.RemainingDays)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		remaining, reminder int
		want                model.Status
	}{
		{remaining: -5, reminder: 3, want: model.StatusExpired},
		{remaining: 0, reminder: 3, want: model.StatusExpired},
		{remaining: 1, reminder: 3, want: model.StatusWarning},
		{remaining: 3, reminder: 3, want: model.StatusWarning},
		{remaining: 4, reminder: 3, want: model.StatusNormal},
		{remaining: 1, reminder: 0, want: model.StatusNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expiry.Classify(tt.remaining, tt.reminder), "remaining=%d reminder=%d", tt.remaining, tt.reminder)
	}
}

func TestComputeLongShelfLife(t *testing.T) {
	calc := expiry.NewCalculator(utc8)
	production := mustDate(t, "2024-01-01")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, utc8)

	t.Run("Should count remaining days past the duration range", func(t *testing.T) {
		got := calc.Compute(production, 200_000, 150_000, now)

		assert.Equal(t, 200_000, got.RemainingDays)
		assert.Equal(t, model.StatusNormal, got.Status)
		assert.Equal(t, 100, got.ShelfLifePercent)
	})

	t.Run("Should warn inside a long reminder window", func(t *testing.T) {
		later := production.AddDays(60_000).Midnight(utc8).Add(12 * time.Hour)
		got := calc.Compute(production, 200_000, 150_000, later)

		assert.Equal(t, 140_000, got.RemainingDays)
		assert.Equal(t, model.StatusWarning, got.Status)
	})
}
