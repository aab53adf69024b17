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

// Package fixtures ships the sample consents and requests used by the demo
// command and the scenario tests.
package fixtures

import (
	"github.com/consent-mgmt/consent-validation-service/domain"
)

// SampleActiveConsents returns the demo patient's active consent set: an
// emergency-treatment consent for demographics and vitals, a restricted
// mental-health consent, a research consent with an identifier carve-out and
// a medication consent scoped to one hospital.
func SampleActiveConsents() []domain.Consent {
	return []domain.Consent{
		{
			ID:         "consent-001-demographics",
			Status:     domain.StatusActive,
			DateTime:   "2025-01-01T00:00:00Z",
			PatientRef: "Patient/CR123456789",
			Provision: domain.Provision{
				Type: "permit",
				DataPeriod: &domain.Period{
					Start: "2025-01-01T00:00:00Z",
					End:   "2026-01-01T00:00:00Z",
				},
				Class: []domain.ClassEntry{
					{System: "http://hl7.org/fhir/resource-types", Code: "Patient", Display: "Patient Demographics"},
					{System: "http://hl7.org/fhir/resource-types", Code: "Observation.vital-signs", Display: "Vital Signs"},
				},
				Purpose: []domain.PurposeEntry{
					{System: "http://terminology.hl7.org/CodeSystem/v3-ActReason", Code: "ETREAT"},
				},
				Actor: []domain.Actor{
					{Role: []domain.Coding{{System: "http://terminology.hl7.org/CodeSystem/v3-RoleCode", Code: "ER", Display: "Emergency Room"}}},
				},
				SecurityLabel: []domain.Coding{
					{System: "http://terminology.hl7.org/CodeSystem/v3-ActCode", Code: "EMRGONLY", Display: "Emergency Only"},
				},
			},
		},
		{
			ID:         "consent-004-mental-health",
			Status:     domain.StatusActive,
			DateTime:   "2025-01-10T00:00:00Z",
			PatientRef: "Patient/CR123456789",
			Provision: domain.Provision{
				Type: "permit",
				DataPeriod: &domain.Period{
					Start: "2025-01-10T00:00:00Z",
					End:   "2025-04-10T00:00:00Z",
				},
				Class: []domain.ClassEntry{
					{System: "http://snomed.info/sct", Code: "74732009", Display: "Mental disorder"},
					{System: "http://hl7.org/fhir/resource-types", Code: "Condition.mental-health", Display: "Mental Health Conditions"},
				},
				Purpose: []domain.PurposeEntry{
					{System: "http://terminology.hl7.org/CodeSystem/v3-ActReason", Code: "TREAT"},
				},
				Actor: []domain.Actor{
					{
						Role:      []domain.Coding{{System: "http://terminology.hl7.org/CodeSystem/v3-ParticipationType", Code: "CST", Display: "Custodian"}},
						Reference: "Organization/mental-health-certified",
					},
				},
				SecurityLabel: []domain.Coding{
					{System: "http://terminology.hl7.org/CodeSystem/v3-Confidentiality", Code: "R", Display: "Restricted"},
				},
			},
		},
		{
			ID:         "consent-005-research",
			Status:     domain.StatusActive,
			DateTime:   "2025-01-20T00:00:00Z",
			PatientRef: "Patient/CR123456789",
			Provision: domain.Provision{
				Type: "permit",
				DataPeriod: &domain.Period{
					Start: "2025-01-20T00:00:00Z",
					End:   "2030-01-20T00:00:00Z",
				},
				Class: []domain.ClassEntry{
					{System: "http://hl7.org/fhir/resource-types", Code: "Observation", Display: "Clinical Observations"},
					{System: "http://hl7.org/fhir/resource-types", Code: "Condition", Display: "Clinical Conditions"},
					{System: "http://hl7.org/fhir/resource-types", Code: "Observation.laboratory", Display: "Laboratory Results"},
				},
				Purpose: []domain.PurposeEntry{
					{System: "http://terminology.hl7.org/CodeSystem/v3-ActReason", Code: "HRESCH"},
				},
				Actor: []domain.Actor{
					{
						Role:      []domain.Coding{{System: "http://terminology.hl7.org/CodeSystem/v3-ParticipationType", Code: "CST"}},
						Reference: "Organization/research-institute",
					},
				},
				Provisions: []domain.Provision{
					{
						Type: "deny",
						Class: []domain.ClassEntry{
							{System: "http://hl7.org/fhir/resource-types", Code: "Patient.identifier", Display: "Patient Identifiers"},
						},
					},
				},
			},
		},
		{
			ID:         "consent-006-medication",
			Status:     domain.StatusActive,
			DateTime:   "2025-01-05T00:00:00Z",
			PatientRef: "Patient/CR123456789",
			Provision: domain.Provision{
				Type: "permit",
				DataPeriod: &domain.Period{
					Start: "2025-01-05T00:00:00Z",
					End:   "2025-12-31T00:00:00Z",
				},
				Class: []domain.ClassEntry{
					{System: "http://hl7.org/fhir/resource-types", Code: "MedicationRequest", Display: "Medication Prescriptions"},
					{System: "http://hl7.org/fhir/resource-types", Code: "MedicationDispense", Display: "Dispensed Medications"},
				},
				Purpose: []domain.PurposeEntry{
					{System: "http://terminology.hl7.org/CodeSystem/v3-ActReason", Code: "TREAT"},
				},
				Actor: []domain.Actor{
					{
						Role:      []domain.Coding{{System: "http://terminology.hl7.org/CodeSystem/v3-ParticipationType", Code: "CST"}},
						Reference: "Organization/knh-hospital",
					},
				},
			},
		},
	}
}

// SampleRequests returns the demo request set covering the main decision
// paths: straight reuse, emergency override, cross-organization access,
// research pseudonymization, role filtering, temporal misses and one invalid
// patient identifier.
func SampleRequests() []domain.ConsentRequest {
	return []domain.ConsentRequest{
		{
			RequestID:             "req-001",
			PatientID:             "CR123456789",
			RequesterID:           "dr-smith-001",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "physician",
			DataTypes:             []string{"Patient.demographics"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-12-31T23:59:59Z"},
		},
		{
			RequestID:             "req-002",
			PatientID:             "CR123456789",
			RequesterID:           "dr-smith-001",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "physician",
			DataTypes:             []string{"Observation.laboratory"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-15T00:00:00Z", End: "2025-04-15T00:00:00Z"},
		},
		{
			RequestID:             "req-003",
			PatientID:             "CR123456789",
			RequesterID:           "dr-emergency-002",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "physician",
			DataTypes:             []string{"AllergyIntolerance"},
			Purpose:               "ETREAT",
			TimeRange:             domain.Period{Start: "2025-01-25T14:30:00Z", End: "2025-01-25T18:30:00Z"},
			EmergencyContext:      true,
		},
		{
			RequestID:             "req-004",
			PatientID:             "CR123456789",
			RequesterID:           "dr-geneticist-004",
			RequesterOrganization: "external-lab",
			RequesterRole:         "physician",
			DataTypes:             []string{"Observation.genetic"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-15T00:00:00Z", End: "2025-04-15T00:00:00Z"},
		},
		{
			RequestID:             "req-005",
			PatientID:             "CR123456789",
			RequesterID:           "researcher-004",
			RequesterOrganization: "research-institute",
			RequesterRole:         "researcher",
			DataTypes:             []string{"Observation.laboratory", "Condition.diagnosis"},
			Purpose:               "HRESCH",
			TimeRange:             domain.Period{Start: "2025-01-20T00:00:00Z", End: "2030-01-20T00:00:00Z"},
		},
		{
			RequestID:             "req-006",
			PatientID:             "CR123456789",
			RequesterID:           "billing-admin-006",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "billing",
			DataTypes:             []string{"Patient.demographics", "Encounter.financial"},
			Purpose:               "HPAYMT",
			TimeRange:             domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-06-30T00:00:00Z"},
		},
		{
			RequestID:             "req-007",
			PatientID:             "CR123456789",
			RequesterID:           "psychiatrist-007",
			RequesterOrganization: "mental-health-certified",
			RequesterRole:         "physician",
			DataTypes:             []string{"Condition.mental-health"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-10T00:00:00Z", End: "2025-04-10T00:00:00Z"},
		},
		{
			RequestID:             "req-008",
			PatientID:             "CR123456789",
			RequesterID:           "dr-late-008",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "physician",
			DataTypes:             []string{"Observation.laboratory"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-05-01T00:00:00Z", End: "2025-05-31T00:00:00Z"},
		},
		{
			RequestID:             "req-009",
			PatientID:             "CR123456789",
			RequesterID:           "pharmacist-008",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "pharmacist",
			DataTypes:             []string{"MedicationRequest", "AllergyIntolerance"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-12-31T00:00:00Z"},
		},
		{
			RequestID:             "req-010",
			PatientID:             "INVALID-ID",
			RequesterID:           "dr-test-010",
			RequesterOrganization: "knh-hospital",
			RequesterRole:         "physician",
			DataTypes:             []string{"Patient.demographics"},
			Purpose:               "TREAT",
			TimeRange:             domain.Period{Start: "2025-01-01T00:00:00Z", End: "2025-12-31T00:00:00Z"},
		},
	}
}
