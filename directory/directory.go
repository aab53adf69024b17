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

package directory

import (
	"github.com/consent-mgmt/consent-validation-service/domain"
)

// PatientDirectory is the external patient-identity registry. Lookup returns
// domain.ErrNotFound for unknown or inactive patients; any other error is a
// registry fault.
type PatientDirectory interface {
	Lookup(patientID string) (*domain.PatientIdentity, error)
}

// RequesterDirectory is the external requester-credential registry. Lookup
// requires an exact organization match and an active credential; absence of
// either is domain.ErrNotFound, not a fault.
type RequesterDirectory interface {
	Lookup(requesterID, organization string) (*domain.RequesterCredential, error)
}

// ReferralDirectory answers whether an active referral relationship exists
// between two organizations.
type ReferralDirectory interface {
	HasActiveReferral(fromOrg, toOrg string) bool
}
