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
	"github.com/consent-mgmt/consent-validation-service/policy"
)

// criticalDenialMarkers flag a denial entry that must fail the whole request
// regardless of how many entries are allowed.
var criticalDenialMarkers = []string{"critical", "role-denial", "genetic", "mental-health"}

// highSensitivityThreshold is the level at and above which the fixed
// high-sensitivity masking set applies.
const highSensitivityThreshold = domain.SensitivityMedium

// EvaluatePermissions derives the granular allow/deny/mask/pseudonymize sets
// for one requested data type from the matched consent's provision tree, the
// requester's role profile, the purpose and the data type's sensitivity.
func (e *Engine) EvaluatePermissions(consent *domain.Consent, dataType, purpose, role string) domain.DataPermissions {
	permissions := domain.DataPermissions{
		Allowed:       []string{},
		Denied:        []string{},
		Masked:        []string{},
		Pseudonymized: []string{},
	}

	provision := consent.Provision
	if provision.Type == "deny" {
		permissions.Denied = append(permissions.Denied, dataType)
	} else {
		permissions.Allowed = append(permissions.Allowed, dataType)
	}

	// Nested provisions express exceptions: deny overrides a prior allow for
	// matching classes, excluded codes become scoped denials.
	for _, nested := range provision.Provisions {
		for _, class := range nested.Class {
			if !policy.MatchesDataType(class.Code, dataType) {
				continue
			}
			if nested.Type == "deny" {
				permissions.Denied = append(permissions.Denied, class.Code)
				permissions.Allowed = remove(permissions.Allowed, class.Code)
			} else {
				permissions.Allowed = append(permissions.Allowed, class.Code)
			}
		}
		for _, codeEntry := range nested.Code {
			for _, coding := range codeEntry.Coding {
				if e.Tables.ExcludedCode(coding.Code, dataType) {
					permissions.Denied = append(permissions.Denied, dataType+"."+coding.Code)
				}
			}
		}
	}

	profile := e.Tables.Role(role)

	if !containsString(profile.AllowedData, "*") {
		allowed := false
		for _, pattern := range profile.AllowedData {
			if policy.MatchesPattern(dataType, pattern) {
				allowed = true
				break
			}
		}
		if !allowed {
			permissions.Denied = append(permissions.Denied, "role-restriction:"+dataType)
		}
	}
	for _, pattern := range profile.DeniedData {
		if policy.MatchesPattern(dataType, pattern) {
			permissions.Denied = append(permissions.Denied, "role-denial:"+dataType)
		}
	}
	permissions.Masked = append(permissions.Masked, profile.MaskedFields...)

	if e.Tables.SensitivityOf(dataType) >= highSensitivityThreshold {
		permissions.Masked = append(permissions.Masked, e.Tables.HighSensitivityMasking...)
	}

	switch purpose {
	case "HRESCH":
		permissions.Pseudonymized = append(permissions.Pseudonymized,
			"Patient.identifier", "Patient.name", "Patient.telecom", "Patient.address")
	case "HMARKT":
		permissions.Masked = append(permissions.Masked, "detailed-clinical-data", "sensitive-demographics")
	}

	return permissions
}

// HasViolations reports whether the derived permissions should deny access:
// denials dominate allows, or any denial is flagged critical.
func HasViolations(permissions domain.DataPermissions) bool {
	if len(permissions.Denied) > len(permissions.Allowed) {
		return true
	}
	for _, denied := range permissions.Denied {
		lower := strings.ToLower(denied)
		for _, marker := range criticalDenialMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// MergePermissions unions per-data-type permission sets into the single set
// that feeds filtering and token issuance.
func MergePermissions(sets []domain.DataPermissions) domain.DataPermissions {
	merged := domain.DataPermissions{
		Allowed:       []string{},
		Denied:        []string{},
		Masked:        []string{},
		Pseudonymized: []string{},
	}
	for _, set := range sets {
		merged.Allowed = appendUnique(merged.Allowed, set.Allowed...)
		merged.Denied = appendUnique(merged.Denied, set.Denied...)
		merged.Masked = appendUnique(merged.Masked, set.Masked...)
		merged.Pseudonymized = appendUnique(merged.Pseudonymized, set.Pseudonymized...)
		merged.Restrictions = appendUnique(merged.Restrictions, set.Restrictions...)
	}
	return merged
}

func remove(items []string, target string) []string {
	out := items[:0]
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func appendUnique(items []string, extra ...string) []string {
	for _, candidate := range extra {
		if !containsString(items, candidate) {
			items = append(items, candidate)
		}
	}
	return items
}
