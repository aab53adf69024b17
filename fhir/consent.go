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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

// RenderConsent projects an approved decision onto a FHIR Consent resource.
// Non-approved decisions yield an empty string: only grants become resources.
func RenderConsent(request domain.ConsentRequest, decision domain.ConsentDecision, clock domain.Clock) (string, error) {
	if decision.Decision != domain.DecisionApproved {
		return "", nil
	}

	now := clock.Now()
	viewModel := map[string]interface{}{
		"consentId":    fmt.Sprintf("consent-%s-%s", request.RequestID, now.Format("20060102150405")),
		"lastUpdated":  now.Format(time.RFC3339),
		"dateTime":     now.Format(time.RFC3339),
		"patientId":    request.PatientID,
		"requesterOrg": request.RequesterOrganization,
		"purpose":      request.Purpose,
		"periodStart":  request.TimeRange.Start,
		"periodEnd":    request.TimeRange.End,
	}

	if len(decision.Permissions.Allowed) > 0 {
		classes := make([]map[string]string, 0, len(decision.Permissions.Allowed))
		for _, dataType := range decision.Permissions.Allowed {
			classes = append(classes, map[string]string{
				"code":    strings.Split(dataType, ".")[0],
				"display": dataType,
			})
		}
		viewModel["hasClasses"] = true
		viewModel["classes"] = classes
	}

	if len(decision.Restrictions) > 0 {
		labels := make([]map[string]string, 0, len(decision.Restrictions))
		for _, restriction := range decision.Restrictions {
			labels = append(labels, map[string]string{
				"code":    strings.ReplaceAll(restriction, "_", ""),
				"display": titleWords(restriction),
			})
		}
		viewModel["hasLabels"] = true
		viewModel["labels"] = labels
	}

	rendered, err := mustache.Render(consentTemplate, viewModel)
	if err != nil {
		return "", err
	}
	return cleanupJSON(stripTrailingCommas(rendered))
}

// mustache templates cannot express comma-separated lists, so the rendered
// arrays carry a trailing comma that has to go before parsing:
// https://stackoverflow.com/questions/6114435/in-mustache-templating-is-there-an-elegant-way-of-expressing-a-comma-separated-l
var trailingComma = regexp.MustCompile(`\},(\s*)]`)

func stripTrailingCommas(value string) string {
	return trailingComma.ReplaceAllString(value, `}$1]`)
}

// cleanupJSON reparses and compacts the rendered resource, which also catches
// template mistakes early.
func cleanupJSON(value string) (string, error) {
	var parsedValue interface{}
	if err := json.Unmarshal([]byte(value), &parsedValue); err != nil {
		return "", err
	}
	cleanValue, err := json.Marshal(parsedValue)
	if err != nil {
		return "", err
	}
	return string(cleanValue), nil
}

// titleWords turns SNAKE_CASE restriction codes into display text, e.g.
// EMERGENCY_ONLY into "Emergency Only".
func titleWords(value string) string {
	words := strings.Split(strings.ToLower(strings.ReplaceAll(value, "_", " ")), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
