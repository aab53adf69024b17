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
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/audit"
	"github.com/consent-mgmt/consent-validation-service/directory"
	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/fixtures"
	"github.com/consent-mgmt/consent-validation-service/policy"
	"github.com/consent-mgmt/consent-validation-service/token"
)

var testNow = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(sink audit.Sink) *Engine {
	if sink == nil {
		sink = audit.NopSink{}
	}
	tables := policy.DefaultTables()
	patients, requesters, referrals := directory.NewSampleDirectories()
	clock := domain.FixedClock(testNow)
	issuer := &token.Issuer{
		Store:     token.NewMemoryStore(),
		Durations: tables.PurposeDurations,
		Clock:     clock,
		Sink:      sink,
	}
	return NewEngine(tables, patients, requesters, referrals, issuer, sink, clock)
}

func standardRequest() domain.ConsentRequest {
	return domain.ConsentRequest{
		RequestID:             "req-001",
		PatientID:             "CR123456789",
		RequesterID:           "dr-smith-001",
		RequesterOrganization: "knh-hospital",
		RequesterRole:         "physician",
		DataTypes:             []string{"Patient.demographics"},
		Purpose:               "TREAT",
		TimeRange:             domain.Period{Start: "2025-01-15T00:00:00Z", End: "2025-04-15T00:00:00Z"},
	}
}

func TestValidate_StandardTreatmentReuse(t *testing.T) {
	sink := &audit.RecordingSink{}
	engine := newTestEngine(sink)

	decision := engine.Validate(context.Background(), standardRequest(), fixtures.SampleActiveConsents())

	assert.Equal(t, domain.DecisionApproved, decision.Decision)
	assert.Equal(t, "Consent reused based on existing valid consent", decision.Reason)
	assert.True(t, strings.HasPrefix(decision.AccessToken, "Bearer_"))
	assert.Contains(t, decision.Permissions.Allowed, "Patient.demographics")
	assert.Equal(t, "consent-001-demographics", decision.AuditInfo["consent_id"])

	reuseScore, ok := decision.AuditInfo["reuse_score"].(float64)
	if assert.True(t, ok) {
		assert.GreaterOrEqual(t, reuseScore, ReuseThreshold)
	}

	// expiry comes from the consent data period end, not the purpose default
	if assert.NotNil(t, decision.ExpiryTime) {
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *decision.ExpiryTime)
	}

	events := sink.Events()
	if assert.Len(t, events, 1) {
		assert.Equal(t, audit.ConsentUsageLogged, events[0].Type)
		usage := events[0].Data.(*audit.UsageData)
		assert.Equal(t, "consent-001-demographics", usage.ConsentID)
		assert.Equal(t, "REUSED", usage.UsageType)
	}
}

func TestValidate_EmergencyOverride(t *testing.T) {
	sink := &audit.RecordingSink{}
	engine := newTestEngine(sink)

	request := domain.ConsentRequest{
		RequestID:             "req-003",
		PatientID:             "CR123456789",
		RequesterID:           "dr-emergency-002",
		RequesterOrganization: "knh-hospital",
		RequesterRole:         "physician",
		DataTypes:             []string{"AllergyIntolerance"},
		Purpose:               "ETREAT",
		TimeRange:             domain.Period{Start: "2025-01-25T14:30:00Z", End: "2025-01-25T18:30:00Z"},
		EmergencyContext:      true,
	}

	decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())

	assert.Equal(t, domain.DecisionApproved, decision.Decision)
	assert.True(t, strings.HasPrefix(decision.AccessToken, "Emergency_"))
	assert.Contains(t, decision.Reason, "Critical allergy information")
	assert.Contains(t, decision.Restrictions, "POST_EMERGENCY_REVIEW_REQUIRED")
	assert.Equal(t, true, decision.AuditInfo["emergency_access"])
	if assert.NotNil(t, decision.ExpiryTime) {
		assert.Equal(t, testNow.Add(token.EmergencyAccessDuration), *decision.ExpiryTime)
	}

	events := sink.Events()
	if assert.Len(t, events, 1) {
		assert.Equal(t, audit.EmergencyOverrideGranted, events[0].Type)
		override := events[0].Data.(*audit.OverrideData)
		assert.True(t, override.ReviewRequired)
		assert.Equal(t, []string{"Critical allergy information"}, override.DataAccessed)
	}
}

func TestValidate_EmergencyDenials(t *testing.T) {
	engine := newTestEngine(nil)

	testcases := map[string]struct {
		role      string
		dataTypes []string
		reason    string
	}{
		"role not authorized": {
			role:      "billing",
			dataTypes: []string{"AllergyIntolerance"},
			reason:    "Role 'billing' not authorized for emergency overrides",
		},
		"no critical data overlap": {
			role:      "physician",
			dataTypes: []string{"Encounter.financial"},
			reason:    "Emergency override not applicable for requested data types",
		},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			request := domain.ConsentRequest{
				RequestID:             "req-emergency",
				PatientID:             "CR123456789",
				RequesterID:           "dr-emergency-002",
				RequesterOrganization: "knh-hospital",
				RequesterRole:         testcase.role,
				DataTypes:             testcase.dataTypes,
				Purpose:               "ETREAT",
				EmergencyContext:      true,
			}
			decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())
			assert.Equal(t, domain.DecisionDenied, decision.Decision)
			assert.Equal(t, testcase.reason, decision.Reason)
			assert.Empty(t, decision.AccessToken)
		})
	}
}

func TestValidate_InputAndIdentityDenials(t *testing.T) {
	engine := newTestEngine(nil)

	testcases := map[string]struct {
		mutate func(request *domain.ConsentRequest)
		reason string
		step   string
	}{
		"missing patient id": {
			mutate: func(request *domain.ConsentRequest) { request.PatientID = " " },
			reason: "Patient ID is required",
			step:   "input_validation",
		},
		"missing requester id": {
			mutate: func(request *domain.ConsentRequest) { request.RequesterID = "" },
			reason: "Requester ID is required",
			step:   "input_validation",
		},
		"no data types": {
			mutate: func(request *domain.ConsentRequest) { request.DataTypes = nil },
			reason: "At least one data type must be specified",
			step:   "input_validation",
		},
		"unknown purpose": {
			mutate: func(request *domain.ConsentRequest) { request.Purpose = "GOSSIP" },
			reason: "Invalid purpose code: GOSSIP",
			step:   "input_validation",
		},
		"malformed time range": {
			mutate: func(request *domain.ConsentRequest) { request.TimeRange.Start = "not-a-date" },
			reason: "Invalid date format in time range",
			step:   "input_validation",
		},
		"unknown patient": {
			mutate: func(request *domain.ConsentRequest) { request.PatientID = "INVALID-ID" },
			reason: "Invalid patient identifier",
			step:   "patient_validation",
		},
		"patient id too short": {
			mutate: func(request *domain.ConsentRequest) { request.PatientID = "CR1" },
			reason: "Invalid patient identifier",
			step:   "patient_validation",
		},
		"unknown requester": {
			mutate: func(request *domain.ConsentRequest) { request.RequesterID = "dr-nobody-999" },
			reason: "Invalid requester credentials",
			step:   "requester_validation",
		},
		"requester organization mismatch": {
			mutate: func(request *domain.ConsentRequest) { request.RequesterOrganization = "mp-hospital" },
			reason: "Invalid requester credentials",
			step:   "requester_validation",
		},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			request := standardRequest()
			testcase.mutate(&request)
			decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())
			assert.Equal(t, domain.DecisionDenied, decision.Decision)
			assert.Equal(t, testcase.reason, decision.Reason)
			assert.Equal(t, testcase.step, decision.AuditInfo["step"])
			assert.Empty(t, decision.AccessToken)
		})
	}
}

func TestValidate_NoConsentMatch(t *testing.T) {
	engine := newTestEngine(nil)

	request := standardRequest()
	request.DataTypes = []string{"Procedure.surgical"}
	request.TimeRange = domain.Period{}

	decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())

	assert.Equal(t, domain.DecisionDenied, decision.Decision)
	assert.Equal(t, "No valid consent found for data type: Procedure.surgical", decision.Reason)
	assert.Equal(t, "Procedure.surgical", decision.AuditInfo["failed_data_type"])
}

func TestValidate_ExpiredConsentDeniedTemporally(t *testing.T) {
	engine := newTestEngine(nil)

	expired := domain.Consent{
		ID:       "consent-expired",
		Status:   domain.StatusActive,
		DateTime: "2025-01-01T00:00:00Z",
		Provision: domain.Provision{
			Type: "permit",
			DataPeriod: &domain.Period{
				Start: "2025-01-01T00:00:00Z",
				End:   "2025-01-20T00:00:00Z",
			},
			Class:   []domain.ClassEntry{{Code: "Patient.demographics"}},
			Purpose: []domain.PurposeEntry{{Code: "TREAT"}},
			Actor:   []domain.Actor{{Reference: "Organization/knh-hospital"}},
		},
	}

	request := standardRequest()
	request.TimeRange = domain.Period{}

	decision := engine.Validate(context.Background(), request, []domain.Consent{expired})

	assert.Equal(t, domain.DecisionDenied, decision.Decision)
	assert.Equal(t, "Request falls outside consent temporal scope", decision.Reason)
	assert.Equal(t, "temporal_validation", decision.AuditInfo["step"])
}

func TestValidate_ResearchPseudonymization(t *testing.T) {
	engine := newTestEngine(nil)

	request := domain.ConsentRequest{
		RequestID:             "req-005",
		PatientID:             "CR123456789",
		RequesterID:           "researcher-004",
		RequesterOrganization: "research-institute",
		RequesterRole:         "researcher",
		DataTypes:             []string{"Observation.laboratory", "Condition.diagnosis"},
		Purpose:               "HRESCH",
		TimeRange:             domain.Period{Start: "2025-01-20T00:00:00Z", End: "2030-01-20T00:00:00Z"},
	}

	decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())

	assert.Equal(t, domain.DecisionApproved, decision.Decision)
	assert.Equal(t, "consent-005-research", decision.AuditInfo["consent_id"])
	assert.Contains(t, decision.Permissions.Allowed, "Observation.laboratory")
	assert.Contains(t, decision.Permissions.Allowed, "Condition.diagnosis")
	for _, field := range []string{"Patient.identifier", "Patient.name", "Patient.telecom", "Patient.address"} {
		assert.Contains(t, decision.Permissions.Pseudonymized, field)
	}
}

func TestValidate_PendingBelowReuseThreshold(t *testing.T) {
	tables := policy.DefaultTables()
	patients, _, referrals := directory.NewSampleDirectories()
	requesters := &directory.MemoryRequesterDirectory{Requesters: map[string]domain.RequesterCredential{
		"dr-ext-001": {
			ID:           "dr-ext-001",
			Organization: "external-lab",
			Role:         "physician",
			Verified:     true,
			Active:       true,
		},
	}}
	clock := domain.FixedClock(testNow)
	issuer := &token.Issuer{Store: token.NewMemoryStore(), Durations: tables.PurposeDurations, Clock: clock, Sink: audit.NopSink{}}
	engine := NewEngine(tables, patients, requesters, referrals, issuer, audit.NopSink{}, clock)

	request := domain.ConsentRequest{
		RequestID:             "req-ext",
		PatientID:             "CR123456789",
		RequesterID:           "dr-ext-001",
		RequesterOrganization: "external-lab",
		RequesterRole:         "physician",
		DataTypes:             []string{"MedicationRequest"},
		Purpose:               "TREAT",
	}

	decision := engine.Validate(context.Background(), request, fixtures.SampleActiveConsents())

	assert.Equal(t, domain.DecisionPending, decision.Decision)
	assert.Equal(t, "Explicit patient consent required - reuse threshold not met", decision.Reason)
	assert.Equal(t, "patient_notification", decision.AuditInfo["required_action"])
	assert.Equal(t, ReuseThreshold, decision.AuditInfo["threshold"])
	assert.Empty(t, decision.AccessToken)

	reuseScore, ok := decision.AuditInfo["reuse_score"].(float64)
	if assert.True(t, ok) {
		assert.Less(t, reuseScore, ReuseThreshold)
	}
}

func TestValidate_TokenOnlyOnApproval(t *testing.T) {
	engine := newTestEngine(nil)
	consents := fixtures.SampleActiveConsents()

	for _, request := range fixtures.SampleRequests() {
		decision := engine.Validate(context.Background(), request, consents)
		if decision.Decision == domain.DecisionApproved {
			assert.NotEmpty(t, decision.AccessToken, "request %s", request.RequestID)
			assert.NotNil(t, decision.ExpiryTime, "request %s", request.RequestID)
		} else {
			assert.Empty(t, decision.AccessToken, "request %s", request.RequestID)
		}
	}
}

// Same input, same clock: decision, reason and scores must not change between
// calls. Only the synthesized token differs.
func TestValidate_Idempotent(t *testing.T) {
	engine := newTestEngine(nil)
	consents := fixtures.SampleActiveConsents()

	for _, request := range fixtures.SampleRequests() {
		first := engine.Validate(context.Background(), request, consents)
		second := engine.Validate(context.Background(), request, consents)

		assert.Equal(t, first.Decision, second.Decision, "request %s", request.RequestID)
		assert.Equal(t, first.Reason, second.Reason, "request %s", request.RequestID)
		assert.Equal(t, first.Permissions.Allowed, second.Permissions.Allowed, "request %s", request.RequestID)
		assert.Equal(t, first.AuditInfo["reuse_score"], second.AuditInfo["reuse_score"], "request %s", request.RequestID)
	}
}

// Scripted directories cover the lookups the fixture directories cannot
// produce: a registry miss and a credential that was deactivated after issuance.
func TestValidate_ScriptedDirectories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patients := directory.NewMockPatientDirectory(ctrl)
	requesters := directory.NewMockRequesterDirectory(ctrl)
	referrals := directory.NewMockReferralDirectory(ctrl)
	engine := NewEngine(policy.DefaultTables(), patients, requesters, referrals, nil, nil, domain.FixedClock(testNow))

	t.Run("patient missing from the registry", func(t *testing.T) {
		patients.EXPECT().Lookup("CR123456789").Return(nil, domain.ErrNotFound)

		decision := engine.Validate(context.Background(), standardRequest(), fixtures.SampleActiveConsents())

		assert.Equal(t, domain.DecisionDenied, decision.Decision)
		assert.Equal(t, "Invalid patient identifier", decision.Reason)
		assert.Equal(t, "patient_validation", decision.AuditInfo["step"])
	})

	t.Run("deactivated requester credential", func(t *testing.T) {
		patients.EXPECT().Lookup("CR123456789").Return(&domain.PatientIdentity{
			ID:                   "CR123456789",
			ManagingOrganization: "moh-kenya",
			Active:               true,
		}, nil)
		requesters.EXPECT().Lookup("dr-smith-001", "knh-hospital").Return(&domain.RequesterCredential{
			ID:           "dr-smith-001",
			Organization: "knh-hospital",
			Role:         "physician",
			Active:       false,
		}, nil)

		decision := engine.Validate(context.Background(), standardRequest(), fixtures.SampleActiveConsents())

		assert.Equal(t, domain.DecisionDenied, decision.Decision)
		assert.Equal(t, "Invalid requester credentials", decision.Reason)
		assert.Equal(t, "requester_validation", decision.AuditInfo["step"])
	})

	t.Run("referral lookup feeds the relationship score", func(t *testing.T) {
		referrals.EXPECT().HasActiveReferral("clinic-east", "clinic-west").Return(true)
		assert.InDelta(t, 0.6, engine.RelationshipScore("clinic-east", "clinic-west"), 1e-9)

		referrals.EXPECT().HasActiveReferral("clinic-east", "clinic-west").Return(false)
		assert.InDelta(t, 0.2, engine.RelationshipScore("clinic-east", "clinic-west"), 1e-9)
	})
}
