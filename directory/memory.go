package directory

import (
	"github.com/consent-mgmt/consent-validation-service/domain"
)

// MemoryPatientDirectory is a fixture-backed PatientDirectory for the demo
// driver and tests. A production deployment points the engine at the national
// patient registry instead.
type MemoryPatientDirectory struct {
	Patients map[string]domain.PatientIdentity
}

func (d *MemoryPatientDirectory) Lookup(patientID string) (*domain.PatientIdentity, error) {
	patient, ok := d.Patients[patientID]
	if !ok || !patient.Active {
		return nil, domain.ErrNotFound
	}
	copied := patient
	return &copied, nil
}

// MemoryRequesterDirectory is a fixture-backed RequesterDirectory.
type MemoryRequesterDirectory struct {
	Requesters map[string]domain.RequesterCredential
}

func (d *MemoryRequesterDirectory) Lookup(requesterID, organization string) (*domain.RequesterCredential, error) {
	requester, ok := d.Requesters[requesterID]
	if !ok || requester.Organization != organization || !requester.Active {
		return nil, domain.ErrNotFound
	}
	copied := requester
	return &copied, nil
}

// MemoryReferralDirectory is a fixture-backed ReferralDirectory keyed on
// (fromOrg, toOrg) pairs.
type MemoryReferralDirectory struct {
	Referrals map[[2]string]bool
}

func (d *MemoryReferralDirectory) HasActiveReferral(fromOrg, toOrg string) bool {
	return d.Referrals[[2]string{fromOrg, toOrg}]
}

// NewSampleDirectories builds the fixture directories used by the demo driver.
func NewSampleDirectories() (*MemoryPatientDirectory, *MemoryRequesterDirectory, *MemoryReferralDirectory) {
	patients := &MemoryPatientDirectory{Patients: map[string]domain.PatientIdentity{
		"CR123456789": {
			ID:                   "CR123456789",
			ManagingOrganization: "moh-kenya",
			Preferences: domain.Preferences{
				MarketingOptOut:       true,
				DataMaskingPreference: "standard",
				NotificationMethod:    "sms",
			},
			Active: true,
		},
		"CR987654321": {
			ID:                   "CR987654321",
			ManagingOrganization: "knh-hospital",
			Preferences: domain.Preferences{
				MarketingOptOut:       false,
				DataMaskingPreference: "enhanced",
			},
			Active: true,
		},
		"CR123456790": {
			ID:                   "CR123456790",
			ManagingOrganization: "mtrh",
			Preferences: domain.Preferences{
				MarketingOptOut:       true,
				DataMaskingPreference: "standard",
				NotificationMethod:    "sms",
			},
			Active: true,
		},
	}}

	requesters := &MemoryRequesterDirectory{Requesters: map[string]domain.RequesterCredential{
		"dr-smith-001": {
			ID:           "dr-smith-001",
			Organization: "knh-hospital",
			Verified:     true,
			Active:       true,
			Role:         "physician",
			License:      "KE-MD-12345",
		},
		"dr-emergency-002": {
			ID:           "dr-emergency-002",
			Organization: "knh-hospital",
			Verified:     true,
			Active:       true,
			Role:         "physician",
			Department:   "emergency",
			License:      "KE-MD-67890",
		},
		"researcher-004": {
			ID:           "researcher-004",
			Organization: "research-institute",
			Verified:     true,
			Active:       true,
			Role:         "researcher",
			IRBApproval:  "IRB-2025-001",
		},
		"pharmacist-008": {
			ID:           "pharmacist-008",
			Organization: "knh-hospital",
			Verified:     true,
			Active:       true,
			Role:         "pharmacist",
			License:      "KE-PHARM-111",
		},
		"pharmacist-006": {
			ID:           "pharmacist-006",
			Organization: "mtrh",
			Verified:     true,
			Active:       true,
			Role:         "pharmacist",
			License:      "KE-PHARM-171",
		},
	}}

	referrals := &MemoryReferralDirectory{Referrals: map[[2]string]bool{
		{"rural-clinic", "knh-hospital"}:      true,
		{"community-health", "mp-hospital"}:   true,
		{"knh-hospital", "specialist-clinics"}: true,
	}}

	return patients, requesters, referrals
}
