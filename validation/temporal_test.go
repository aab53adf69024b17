package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

func TestParseStrict(t *testing.T) {
	testcases := map[string]struct {
		text string
		exp  time.Time
		fail bool
	}{
		"zulu":           {text: "2025-01-15T10:30:00Z", exp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		"offset":         {text: "2025-01-15T12:30:00+02:00", exp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		"naive datetime": {text: "2025-01-15T10:30:00", exp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		"date only":      {text: "2025-01-15", exp: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		"empty":          {text: "", fail: true},
		"garbage":        {text: "not-a-date", fail: true},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseStrict(testcase.text)
			if testcase.fail {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(testcase.exp), "exp %s, got %s", testcase.exp, got)
		})
	}
}

func TestParseDateTimeFallsBackToNow(t *testing.T) {
	clock := domain.FixedClock(testNow)
	assert.Equal(t, testNow, ParseDateTime("", clock))
	assert.Equal(t, testNow, ParseDateTime("garbage", clock))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), ParseDateTime("2025-01-15", clock))
}

func TestWithinPeriod(t *testing.T) {
	period := domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-12-31T00:00:00Z"}

	assert.True(t, WithinPeriod(testNow, period))
	assert.True(t, WithinPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), period), "start bound is inclusive")
	assert.True(t, WithinPeriod(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), period), "end bound is inclusive")
	assert.False(t, WithinPeriod(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), period))
	assert.False(t, WithinPeriod(testNow, domain.Period{Start: "garbage", End: "2025-12-31T00:00:00Z"}), "malformed bounds fail closed")
	assert.False(t, WithinPeriod(testNow, domain.Period{Start: "2025-01-01T00:00:00Z"}), "missing end fails closed")
}

func TestContainsPeriod(t *testing.T) {
	outer := domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-12-31T00:00:00Z"}

	testcases := map[string]struct {
		inner domain.Period
		exp   bool
	}{
		"fully inside":    {domain.Period{Start: "2025-02-01T00:00:00Z", End: "2025-03-01T00:00:00Z"}, true},
		"identical":       {outer, true},
		"starts too soon": {domain.Period{Start: "2024-12-01T00:00:00Z", End: "2025-03-01T00:00:00Z"}, false},
		"ends too late":   {domain.Period{Start: "2025-02-01T00:00:00Z", End: "2026-03-01T00:00:00Z"}, false},
		"malformed inner": {domain.Period{Start: "garbage", End: "2025-03-01T00:00:00Z"}, false},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testcase.exp, ContainsPeriod(outer, testcase.inner))
		})
	}
}
