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

package fhir

import (
	"strings"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

// RenderAuditEvent projects a decision onto a FHIR AuditEvent. Approvals
// record action C with outcome 0, everything else action R with outcome 4
// (minor failure).
func RenderAuditEvent(request domain.ConsentRequest, decision domain.ConsentDecision, clock domain.Clock) (string, error) {
	action := "R"
	outcome := "4"
	if decision.Decision == domain.DecisionApproved {
		action = "C"
		outcome = "0"
	}

	viewModel := map[string]interface{}{
		"action":       action,
		"outcome":      outcome,
		"outcomeDesc":  decision.Reason,
		"recorded":     clock.Now().Format(time.RFC3339),
		"requesterId":  request.RequesterID,
		"requesterOrg": request.RequesterOrganization,
		"roleCode":     strings.ToUpper(request.RequesterRole),
		"roleDisplay":  titleWords(request.RequesterRole),
		"patientId":    request.PatientID,
		"purpose":      request.Purpose,
	}

	rendered, err := mustache.Render(auditEventTemplate, viewModel)
	if err != nil {
		return "", err
	}
	return cleanupJSON(rendered)
}
