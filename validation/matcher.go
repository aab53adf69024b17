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
	"strings"

	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
)

// MinimumMatchThreshold is the lowest weighted score a consent needs before it
// can drive a decision. The weights below are behavioral contracts, not
// tunables.
const MinimumMatchThreshold = 0.7

const (
	weightDataType  = 0.4
	weightPurpose   = 0.3
	weightRequester = 0.2
	weightTemporal  = 0.1
)

const (
	selectWeightRecency     = 0.3
	selectWeightValidity    = 0.3
	selectWeightSpecificity = 0.4
)

// FindBestMatch scores every active consent against one requested data type
// and returns the highest scorer at or above MinimumMatchThreshold, or nil.
// Strictly-greater comparison keeps the first encountered on equal scores, so
// iteration order of the caller-supplied consent slice decides ties.
func (e *Engine) FindBestMatch(consents []domain.Consent, dataType, purpose string, requester *domain.RequesterCredential) *domain.Consent {
	var best *domain.Consent
	highest := 0.0

	for idx := range consents {
		consent := &consents[idx]
		if consent.Status != domain.StatusActive {
			continue
		}
		score := e.matchScore(consent, dataType, purpose, requester)
		logger.Logger().Debugf("consent %s score %.2f for data type %s", consent.ID, score, dataType)
		if score > highest && score >= MinimumMatchThreshold {
			highest = score
			best = consent
		}
	}

	if best != nil {
		logger.Logger().Infof("best consent match: %s with score %.2f", best.ID, highest)
	}
	return best
}

func (e *Engine) matchScore(consent *domain.Consent, dataType, purpose string, requester *domain.RequesterCredential) float64 {
	score := dataTypeMatch(consent.Provision.Class, dataType) * weightDataType
	score += e.purposeMatch(consent.Provision.Purpose, purpose) * weightPurpose
	score += requesterMatch(consent.Provision.Actor, requester) * weightRequester
	score += e.temporalMatch(consent.Provision.DataPeriod) * weightTemporal
	return score
}

// dataTypeMatch grades how well a consent's class entries cover the requested
// type: exact 1.0, dotted child 0.9, substring/wildcard 0.8, shared top-level
// segment 0.7.
func dataTypeMatch(classes []domain.ClassEntry, requested string) float64 {
	if len(classes) == 0 {
		return 0.0
	}
	for _, class := range classes {
		code := class.Code
		if code == requested {
			return 1.0
		}
		if strings.HasPrefix(requested, code+".") {
			return 0.9
		}
		if strings.Contains(code, "*") || strings.Contains(code, requested) {
			return 0.8
		}
		requestedParts := strings.Split(requested, ".")
		codeParts := strings.Split(code, ".")
		if len(requestedParts) > 1 && len(codeParts) > 0 && requestedParts[0] == codeParts[0] {
			return 0.7
		}
	}
	return 0.0
}

func (e *Engine) purposeMatch(purposes []domain.PurposeEntry, requested string) float64 {
	if len(purposes) == 0 {
		return 0.0
	}
	for _, purpose := range purposes {
		if purpose.Code == requested {
			return 1.0
		}
	}
	for _, purpose := range purposes {
		if e.Tables.PurposeCompatible(purpose.Code, requested) {
			return 0.8
		}
	}
	return 0.0
}

// requesterMatch grades actor coverage: 1.0 when any actor reference names the
// requester's organization or the requester, 0.8 for Custodian or Primary
// Care Provider role codings, 0.5 when the consent restricts no actors at all.
func requesterMatch(actors []domain.Actor, requester *domain.RequesterCredential) float64 {
	if len(actors) == 0 {
		return 0.5
	}
	for _, actor := range actors {
		if requester.Organization != "" && strings.Contains(actor.Reference, requester.Organization) {
			return 1.0
		}
		if requester.ID != "" && strings.Contains(actor.Reference, requester.ID) {
			return 1.0
		}
	}
	for _, actor := range actors {
		for _, coding := range actor.Role {
			if coding.Code == "CST" || coding.Code == "PRCP" {
				return 0.8
			}
		}
	}
	return 0.2
}

// temporalMatch grades remaining validity: 0 when the interval is malformed or
// already over, the remaining fraction floored at 0.1 while valid, and a
// neutral 0.5 when the consent carries no interval at all.
func (e *Engine) temporalMatch(period *domain.Period) float64 {
	if period == nil || period.Start == "" || period.End == "" {
		return 0.5
	}
	start, err := ParseStrict(period.Start)
	if err != nil {
		return 0.0
	}
	end, err := ParseStrict(period.End)
	if err != nil {
		return 0.0
	}
	now := e.Clock.Now()
	if now.Before(start) || now.After(end) {
		return 0.0
	}
	total := end.Sub(start).Seconds()
	if total <= 0 {
		return 0.0
	}
	remaining := end.Sub(now).Seconds()
	fraction := remaining / total
	if fraction < 0.1 {
		return 0.1
	}
	return fraction
}

// SelectBestOverall picks the single consent that drives temporal and reuse
// evaluation when several consents qualified for different data types.
// Recency decays over one year, remaining validity normalizes to one year,
// specificity favors dotted non-wildcard class codes.
func (e *Engine) SelectBestOverall(consents []domain.Consent) domain.Consent {
	if len(consents) == 1 {
		return consents[0]
	}

	now := e.Clock.Now()
	best := consents[0]
	bestScore := 0.0

	for _, consent := range consents {
		score := 0.0

		if consent.DateTime != "" {
			if granted, err := ParseStrict(consent.DateTime); err == nil {
				daysOld := now.Sub(granted).Hours() / 24
				recency := 1 - daysOld/365
				if recency < 0 {
					recency = 0
				}
				score += recency * selectWeightRecency
			}
		}

		if period := consent.Provision.DataPeriod; period != nil && period.End != "" {
			if end, err := ParseStrict(period.End); err == nil {
				remainingDays := end.Sub(now).Hours() / 24
				validity := remainingDays / 365
				if validity > 1.0 {
					validity = 1.0
				}
				if validity < 0 {
					validity = 0
				}
				score += validity * selectWeightValidity
			}
		}

		score += specificity(&consent) * selectWeightSpecificity

		if score > bestScore {
			bestScore = score
			best = consent
		}
	}
	return best
}

// specificity is the ratio of dotted, non-wildcard class codes to total class
// codes, with half credit for plain resource codes.
func specificity(consent *domain.Consent) float64 {
	classes := consent.Provision.Class
	if len(classes) == 0 {
		return 0.1
	}
	count := 0.0
	for _, class := range classes {
		code := class.Code
		switch {
		case !strings.Contains(code, "*") && strings.Contains(code, "."):
			count += 1.0
		case !strings.Contains(code, "*") && !strings.Contains(code, "."):
			count += 0.5
		}
	}
	ratio := count / float64(len(classes))
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}
