/*
 *  Consent validation service holds the decision logic for consent based data access
 *  Copyright (C) 2025 Consent Management Platform community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package validation

import (
	"errors"
	"time"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

// layouts accepted for consent and request timestamps. Texts without an offset
// are treated as UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var errMalformedDateTime = errors.New("malformed datetime text")

// ParseStrict parses an ISO-8601 text with 'Z', an explicit offset or no
// offset at all. It never guesses: malformed input is an error.
func ParseStrict(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, errMalformedDateTime
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, errMalformedDateTime
}

// ParseDateTime parses like ParseStrict but falls back to the current time for
// empty or malformed input, keeping the engine available on dirty consent
// data. The fallback is lossy: a garbage timestamp close to "now" can flip a
// temporal check, so strict request-side validation happens before any caller
// reaches this.
func ParseDateTime(text string, clock domain.Clock) time.Time {
	parsed, err := ParseStrict(text)
	if err != nil {
		return clock.Now()
	}
	return parsed
}

// WithinPeriod reports whether point falls inside the period, bounds
// inclusive. Malformed bounds fail closed.
func WithinPeriod(point time.Time, period domain.Period) bool {
	start, err := ParseStrict(period.Start)
	if err != nil {
		return false
	}
	end, err := ParseStrict(period.End)
	if err != nil {
		return false
	}
	return !point.Before(start) && !point.After(end)
}

// ContainsPeriod reports whether outer fully contains inner. Malformed bounds
// fail closed.
func ContainsPeriod(outer, inner domain.Period) bool {
	outerStart, err := ParseStrict(outer.Start)
	if err != nil {
		return false
	}
	outerEnd, err := ParseStrict(outer.End)
	if err != nil {
		return false
	}
	innerStart, err := ParseStrict(inner.Start)
	if err != nil {
		return false
	}
	innerEnd, err := ParseStrict(inner.End)
	if err != nil {
		return false
	}
	return !innerStart.Before(outerStart) && !innerEnd.After(outerEnd)
}
