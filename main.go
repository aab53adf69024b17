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

package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/fhir"
	"github.com/consent-mgmt/consent-validation-service/fixtures"
	"github.com/consent-mgmt/consent-validation-service/pkg"
)

// Demo driver: runs the sample requests through the engine, shows token
// validation and revocation, and renders the FHIR projections for the first
// approval. Use `cmd.Execute()` and the serve command for the api server.
func main() {
	println("consent validation service")

	vs := pkg.ValidationServiceInstance()
	if err := vs.Start(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	activeConsents := fixtures.SampleActiveConsents()
	requests := fixtures.SampleRequests()

	approved := 0
	var firstApproval *domain.ConsentRequest
	var firstDecision domain.ConsentDecision

	for _, request := range requests {
		decision := vs.ValidateConsentRequest(ctx, request, activeConsents)
		fmt.Printf("%-8s %-10s %s\n", request.RequestID, decision.Decision, decision.Reason)
		if decision.Decision == domain.DecisionApproved {
			approved++
			if firstApproval == nil {
				requestCopy := request
				firstApproval = &requestCopy
				firstDecision = decision
			}
		}
	}

	fmt.Printf("\napproved %d of %d requests\n", approved, len(requests))

	if firstApproval != nil {
		fmt.Println(strings.Repeat("=", 40))
		fmt.Println("token validation")

		info := vs.ValidateAccessToken(firstDecision.AccessToken)
		fmt.Printf("token valid: %v, scope: %v\n", info.Valid, info.Scope)

		if vs.RevokeAccessToken(ctx, firstDecision.AccessToken, "Demo revocation") {
			info = vs.ValidateAccessToken(firstDecision.AccessToken)
			fmt.Printf("after revocation: valid=%v reason=%q\n", info.Valid, info.Reason)
		}

		fmt.Println(strings.Repeat("=", 40))
		fmt.Println("fhir resource generation")

		consentResource, err := fhir.RenderConsent(*firstApproval, firstDecision, domain.SystemClock)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(consentResource)

		auditEvent, err := fhir.RenderAuditEvent(*firstApproval, firstDecision, domain.SystemClock)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(auditEvent)
	}
}
