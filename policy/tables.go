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

package policy

import (
	"strings"
	"time"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

// RoleProfile describes what a requester role may see. AllowedData and
// DeniedData support the `*` wildcard and prefix wildcards like "Observation.*".
type RoleProfile struct {
	AllowedData          []string
	DeniedData           []string
	MaskedFields         []string
	PseudonymizedFields  []string
	CanOverrideEmergency bool
}

// DataTypeMapping links a data category to its FHIR resource and the coded
// entries that are excluded for it.
type DataTypeMapping struct {
	FhirResource      string
	FhirClass         string
	DefaultExpiryDays int
	SpecialFields     []string
	LoincCodes        []string
	SnomedCodes       []string
	ExcludedCodes     []string
}

// Tables is the static, process-lifetime policy configuration. Built once by
// DefaultTables and shared by reference; never mutated at runtime.
type Tables struct {
	Sensitivity            map[string]domain.SensitivityLevel
	PurposeDurations       map[string]time.Duration
	CompatiblePurposes     map[string][]string
	Roles                  map[string]RoleProfile
	DataTypeMappings       map[string]DataTypeMapping
	CareNetworks           map[string][]string
	CriticalSafetyTypes    map[string]string
	HighSensitivityMasking []string
}

const day = 24 * time.Hour

// DefaultTables builds the standard policy configuration.
func DefaultTables() *Tables {
	return &Tables{
		Sensitivity: map[string]domain.SensitivityLevel{
			"Patient.demographics":         domain.SensitivityLow,
			"Observation.vital-signs":      domain.SensitivityLow,
			"Observation.laboratory":       domain.SensitivityMedium,
			"DiagnosticReport.imaging":     domain.SensitivityMedium,
			"Condition.diagnosis":          domain.SensitivityHigh,
			"Condition.mental-health":      domain.SensitivityCritical,
			"MedicationRequest.controlled": domain.SensitivityCritical,
			"AllergyIntolerance":           domain.SensitivityCritical,
			"Observation.genetic":          domain.SensitivityCritical,
			"MedicationDispense":           domain.SensitivityHigh,
			"MedicationRequest":            domain.SensitivityHigh,
			"Encounter.financial":          domain.SensitivityMedium,
			"Coverage":                     domain.SensitivityMedium,
		},
		PurposeDurations: map[string]time.Duration{
			"TREAT":   30 * day,
			"ETREAT":  24 * time.Hour,
			"HPAYMT":  180 * day,
			"HOPERAT": 90 * day,
			"HRESCH":  1825 * day, // 5 years
			"PUBHLTH": 365 * day,
			"HMARKT":  90 * day,
			"HDIRECT": 365 * day,
		},
		CompatiblePurposes: map[string][]string{
			"TREAT":   {"ETREAT", "HOPERAT"},
			"ETREAT":  {"TREAT"},
			"HPAYMT":  {"HOPERAT"},
			"HRESCH":  {"TREAT", "HOPERAT"},
			"HOPERAT": {"TREAT", "HPAYMT"},
			"PUBHLTH": {"TREAT", "HOPERAT"},
			"HMARKT":  {}, // marketing is standalone
			"HDIRECT": {"TREAT", "HOPERAT"},
		},
		Roles: map[string]RoleProfile{
			"physician": {
				AllowedData:          []string{"*"},
				CanOverrideEmergency: true,
			},
			"nurse": {
				AllowedData:          []string{"Patient.demographics", "Observation.*", "Condition.*", "AllergyIntolerance"},
				DeniedData:           []string{"Encounter.financial", "Coverage"},
				MaskedFields:         []string{"Patient.identifier.value"},
				CanOverrideEmergency: true,
			},
			"pharmacist": {
				AllowedData:  []string{"MedicationRequest", "MedicationDispense", "AllergyIntolerance", "Patient.demographics"},
				DeniedData:   []string{"DiagnosticReport.*", "Observation.laboratory"},
				MaskedFields: []string{"Patient.address", "Patient.telecom"},
			},
			"billing": {
				AllowedData:  []string{"Patient.demographics", "Encounter.financial", "Coverage"},
				DeniedData:   []string{"Observation.*", "Condition.*", "DiagnosticReport.*"},
				MaskedFields: []string{"Patient.name", "detailed-clinical-data"},
			},
			"researcher": {
				AllowedData:         []string{"*"},
				PseudonymizedFields: []string{"Patient.identifier", "Patient.name", "Patient.telecom", "Patient.address"},
			},
			"marketing": {
				AllowedData:  []string{"Patient.demographics"},
				DeniedData:   []string{"Observation.*", "Condition.*", "DiagnosticReport.*", "MedicationRequest"},
				MaskedFields: []string{"Patient.identifier", "detailed-clinical-data"},
			},
		},
		DataTypeMappings: map[string]DataTypeMapping{
			"patient_demographics": {
				FhirResource:      "Patient",
				FhirClass:         "http://hl7.org/fhir/resource-types#Patient",
				DefaultExpiryDays: 365,
				SpecialFields:     []string{"Patient.photo", "Patient.identifier.value"},
			},
			"vital_signs": {
				FhirResource:      "Observation",
				FhirClass:         "http://loinc.org/vs/LL715-4",
				DefaultExpiryDays: 180,
				LoincCodes:        []string{"8310-5", "8462-4", "8480-6", "8867-4"},
				SnomedCodes:       []string{"118227000", "271649006"},
			},
			"laboratory_results": {
				FhirResource:      "Observation",
				FhirClass:         "http://loinc.org/vs/LL1001-8",
				DefaultExpiryDays: 90,
				SpecialFields:     []string{"genetic-tests", "drug-screening"},
				LoincCodes:        []string{"33747-0", "Drug-screen"},
				ExcludedCodes:     []string{"33747-0", "Drug-screen"},
			},
			"imaging_results": {
				FhirResource:      "DiagnosticReport",
				FhirClass:         "http://hl7.org/fhir/resource-types#DiagnosticReport",
				DefaultExpiryDays: 90,
				SpecialFields:     []string{"imaging-data", "radiology-notes"},
				LoincCodes:        []string{"18748-4", "18747-6"},
				SnomedCodes:       []string{"363679005", "71388002"},
			},
			"prescriptions": {
				FhirResource:      "MedicationRequest",
				FhirClass:         "http://hl7.org/fhir/resource-types#MedicationRequest",
				DefaultExpiryDays: 90,
				SpecialFields:     []string{"controlled-substances"},
			},
			"allergies": {
				FhirResource:      "AllergyIntolerance",
				FhirClass:         "http://hl7.org/fhir/resource-types#AllergyIntolerance",
				DefaultExpiryDays: 365,
				SpecialFields:     []string{"drug-allergies", "food-allergies"},
				SnomedCodes:       []string{"416098002", "414285001", "59037007"},
			},
		},
		CareNetworks: map[string][]string{
			"moh-kenya":              {"knh-hospital", "mp-hospital", "aga-khan", "rural-health-centers"},
			"knh-hospital":           {"moh-kenya", "specialist-clinics", "medical-college"},
			"mtrh":                   {"moh-kenya", "specialist-clinics", "medical-college"},
			"mp-hospital":            {"moh-kenya", "rural-health-centers", "community-clinics"},
			"research-institute":     {"moh-kenya", "knh-hospital", "medical-college"},
			"mental-health-certified": {"knh-hospital", "specialized-mental-health"},
		},
		CriticalSafetyTypes: map[string]string{
			"AllergyIntolerance":        "Critical allergy information",
			"Condition.critical":        "Critical medical conditions",
			"MedicationRequest.active":  "Active medications",
			"Observation.vital-signs":   "Current vital signs",
		},
		HighSensitivityMasking: []string{
			"Patient.identifier.value",
			"Patient.telecom.value",
			"Patient.address.line",
			"Practitioner.identifier.value",
			"detailed-clinical-notes",
			"sensitive-demographics",
		},
	}
}

// SensitivityOf returns the sensitivity level for a data type, defaulting to
// LOW_MEDIUM for unknown types.
func (t *Tables) SensitivityOf(dataType string) domain.SensitivityLevel {
	if level, ok := t.Sensitivity[dataType]; ok {
		return level
	}
	return domain.SensitivityLowMedium
}

// ValidPurpose reports whether the purpose code is known. Membership in the
// duration table defines validity.
func (t *Tables) ValidPurpose(purpose string) bool {
	_, ok := t.PurposeDurations[purpose]
	return ok
}

// PurposeCompatible reports whether requested is listed as compatible with the
// given consent purpose. The relation is asymmetric.
func (t *Tables) PurposeCompatible(consentPurpose, requested string) bool {
	for _, code := range t.CompatiblePurposes[consentPurpose] {
		if code == requested {
			return true
		}
	}
	return false
}

// Role returns the profile for a role, with a zero profile for unknown roles.
func (t *Tables) Role(name string) RoleProfile {
	return t.Roles[name]
}

// ExcludedCode reports whether a coded entry is excluded for the data type.
func (t *Tables) ExcludedCode(code, dataType string) bool {
	lower := strings.ToLower(dataType)
	for _, mapping := range t.DataTypeMappings {
		if !strings.Contains(lower, strings.ToLower(mapping.FhirResource)) {
			continue
		}
		for _, excluded := range mapping.ExcludedCodes {
			if excluded == code {
				return true
			}
		}
	}
	return false
}

// MatchesDataType reports whether a consent class code covers the requested
// data type, honoring trailing wildcards and hierarchical codes.
func MatchesDataType(classCode, requested string) bool {
	if classCode == requested {
		return true
	}
	if strings.Contains(classCode, "*") {
		base := strings.ReplaceAll(classCode, "*", "")
		return strings.HasPrefix(requested, base)
	}
	if strings.Contains(requested, ".") && !strings.Contains(classCode, ".") {
		return strings.HasPrefix(requested, classCode+".")
	}
	return false
}

// MatchesPattern reports whether a data type matches a role profile pattern.
func MatchesPattern(dataType, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.Contains(pattern, "*") {
		base := strings.ReplaceAll(pattern, "*", "")
		return strings.HasPrefix(dataType, base)
	}
	return dataType == pattern
}
