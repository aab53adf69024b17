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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/consent-mgmt/consent-validation-service/audit"
	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
)

var emergencyRestrictions = []string{
	"EMERGENCY_ONLY",
	"POST_EMERGENCY_REVIEW_REQUIRED",
	"AUDIT_TRAIL_MANDATORY",
}

// EvaluateEmergencyOverride handles the safety-critical bypass of normal
// matching. The requester's role must carry the override capability, and the
// requested data types must overlap the fixed critical-safety set; anything
// else is a denial, never a fall-through to normal matching.
func (e *Engine) EvaluateEmergencyOverride(ctx context.Context, request domain.ConsentRequest, patient *domain.PatientIdentity, requester *domain.RequesterCredential) domain.ConsentDecision {
	profile := e.Tables.Role(request.RequesterRole)
	if !profile.CanOverrideEmergency {
		return domain.ConsentDecision{
			Decision: domain.DecisionDenied,
			Reason:   fmt.Sprintf("Role '%s' not authorized for emergency overrides", request.RequesterRole),
		}
	}

	override := domain.DataPermissions{
		Allowed:       []string{},
		Denied:        []string{},
		Masked:        []string{},
		Pseudonymized: []string{},
	}
	var accessed []string

	// Sorted critical types keep the decision reason stable across calls.
	criticalTypes := make([]string, 0, len(e.Tables.CriticalSafetyTypes))
	for criticalType := range e.Tables.CriticalSafetyTypes {
		criticalTypes = append(criticalTypes, criticalType)
	}
	sort.Strings(criticalTypes)

	for _, dataType := range request.DataTypes {
		for _, criticalType := range criticalTypes {
			if strings.Contains(dataType, criticalType) || strings.Contains(criticalType, dataType) {
				override.Allowed = append(override.Allowed, dataType)
				accessed = append(accessed, e.Tables.CriticalSafetyTypes[criticalType])
			}
		}
	}

	if len(override.Allowed) == 0 {
		return domain.ConsentDecision{
			Decision: domain.DecisionDenied,
			Reason:   "Emergency override not applicable for requested data types",
		}
	}

	opaque, expiry, err := e.Tokens.IssueEmergency(request, requester)
	if err != nil {
		logger.Logger().WithError(err).Error("could not issue emergency token")
		return domain.ConsentDecision{
			Decision:  domain.DecisionDenied,
			Reason:    "System error during validation: " + err.Error(),
			AuditInfo: map[string]interface{}{"error": err.Error(), "step": "system_error"},
		}
	}

	_ = e.Audit.Emit(ctx, audit.EmergencyOverrideGranted, &audit.OverrideData{
		RequestID:      request.RequestID,
		PatientID:      request.PatientID,
		RequesterID:    request.RequesterID,
		RequesterOrg:   request.RequesterOrganization,
		RequesterRole:  request.RequesterRole,
		License:        requester.License,
		Permissions:    override,
		DataAccessed:   accessed,
		Justification:  "Patient safety critical data access",
		ReviewRequired: true,
		AlertLevel:     "HIGH",
	})

	return domain.ConsentDecision{
		Decision:     domain.DecisionApproved,
		Reason:       "Emergency access granted for: " + strings.Join(accessed, ", "),
		Permissions:  override,
		AccessToken:  opaque,
		ExpiryTime:   &expiry,
		Restrictions: append([]string{}, emergencyRestrictions...),
		AuditInfo: map[string]interface{}{
			"emergency_access": true,
			"review_required":  true,
			"override_reason":  "Patient safety critical data access",
			"requester_role":   request.RequesterRole,
			"data_accessed":    accessed,
		},
	}
}
