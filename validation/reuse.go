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

// ReuseThreshold is the reuse score at or above which an existing consent may
// be reused without fresh patient confirmation.
const ReuseThreshold = 0.8

const (
	reuseWeightRelationship = 0.4
	reuseWeightPurpose      = 0.3
	reuseWeightCoverage     = 0.2
	reuseWeightTemporal     = 0.1
)

// RelationshipScore grades the organizational relationship between the
// patient's managing organization and the requester's: same organization 1.0,
// care-network adjacency (either direction) 0.8, active referral 0.6, shared
// network membership 0.4, none 0.2.
func (e *Engine) RelationshipScore(patientOrg, requesterOrg string) float64 {
	if patientOrg == "" {
		return 0.2
	}
	if patientOrg == requesterOrg {
		return 1.0
	}
	if containsString(e.Tables.CareNetworks[patientOrg], requesterOrg) {
		return 0.8
	}
	if containsString(e.Tables.CareNetworks[requesterOrg], patientOrg) {
		return 0.8
	}
	if e.Referrals != nil && e.Referrals.HasActiveReferral(patientOrg, requesterOrg) {
		return 0.6
	}
	if sharesNetwork(e.Tables.CareNetworks[patientOrg], e.Tables.CareNetworks[requesterOrg]) {
		return 0.4
	}
	return 0.2
}

func sharesNetwork(left, right []string) bool {
	for _, org := range left {
		if containsString(right, org) {
			return true
		}
	}
	return false
}

// ReuseScore combines relationship, purpose compatibility, data coverage and
// temporal health into the composite that gates reuse.
func (e *Engine) ReuseScore(consent *domain.Consent, request domain.ConsentRequest, relationshipScore float64) float64 {
	score := relationshipScore * reuseWeightRelationship
	score += e.purposeMatch(consent.Provision.Purpose, request.Purpose) * reuseWeightPurpose
	score += dataCoverage(consent.Provision.Class, request.DataTypes) * reuseWeightCoverage
	score += e.temporalMatch(consent.Provision.DataPeriod) * reuseWeightTemporal
	return score
}

// dataCoverage is the fraction of requested data types covered by the
// consent's class entries.
func dataCoverage(classes []domain.ClassEntry, dataTypes []string) float64 {
	if len(dataTypes) == 0 {
		return 0.0
	}
	covered := 0
	for _, dataType := range dataTypes {
		for _, class := range classes {
			if policy.MatchesDataType(class.Code, dataType) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(dataTypes))
}

// ApplyDataFiltering layers role, purpose and patient-preference overlays on
// the evaluated permissions before a token is issued.
func (e *Engine) ApplyDataFiltering(permissions domain.DataPermissions, role, purpose string, preferences domain.Preferences) domain.DataPermissions {
	filtered := domain.DataPermissions{
		Allowed:       append([]string{}, permissions.Allowed...),
		Denied:        append([]string{}, permissions.Denied...),
		Masked:        append([]string{}, permissions.Masked...),
		Pseudonymized: append([]string{}, permissions.Pseudonymized...),
		Restrictions:  append([]string{}, permissions.Restrictions...),
	}

	profile := e.Tables.Role(role)

	switch role {
	case "billing":
		// Billing keeps financial data; clinical categories it did not earn
		// get masked.
		for _, clinical := range []string{"Observation.*", "Condition.*", "DiagnosticReport.*"} {
			claimed := false
			for _, allowed := range filtered.Allowed {
				if policy.MatchesPattern(allowed, clinical) {
					claimed = true
					break
				}
			}
			if !claimed {
				filtered.Masked = append(filtered.Masked, clinical)
			}
		}
	case "researcher":
		filtered.Pseudonymized = append(filtered.Pseudonymized, profile.PseudonymizedFields...)
	case "pharmacist":
		for _, item := range filtered.Allowed {
			if strings.Contains(item, "Medication") || strings.Contains(item, "Allergy") {
				continue
			}
			if item != "Patient.demographics" {
				filtered.Masked = append(filtered.Masked, item)
			}
		}
	}

	switch purpose {
	case "HMARKT":
		// Marketing needs explicit opt-in; an opt-out clears every allow.
		if preferences.MarketingOptOut {
			filtered.Denied = append(filtered.Denied, filtered.Allowed...)
			filtered.Allowed = []string{}
		}
	case "HRESCH":
		filtered.Pseudonymized = append(filtered.Pseudonymized, "Patient.name", "Patient.address", "Patient.telecom")
	case "ETREAT":
		filtered.Restrictions = append(filtered.Restrictions, "EMERGENCY_CONTEXT_ONLY", "LIMITED_DURATION")
	}

	if preferences.DataMaskingPreference == "enhanced" {
		filtered.Masked = append(filtered.Masked, "Patient.identifier.value", "Patient.telecom", "detailed-demographics")
	}

	return filtered
}
