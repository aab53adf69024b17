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
	"regexp"
	"strings"
	"time"

	"github.com/consent-mgmt/consent-validation-service/audit"
	"github.com/consent-mgmt/consent-validation-service/directory"
	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
	"github.com/consent-mgmt/consent-validation-service/policy"
	"github.com/consent-mgmt/consent-validation-service/token"
)

// Engine runs the consent decision pipeline. Every field is read-only after
// construction, so concurrent Validate calls need no locking.
type Engine struct {
	Tables     *policy.Tables
	Patients   directory.PatientDirectory
	Requesters directory.RequesterDirectory
	Referrals  directory.ReferralDirectory
	Tokens     *token.Issuer
	Audit      audit.Sink
	Clock      domain.Clock
}

// NewEngine wires an engine with defaults for the optional collaborators.
func NewEngine(tables *policy.Tables, patients directory.PatientDirectory, requesters directory.RequesterDirectory, referrals directory.ReferralDirectory, issuer *token.Issuer, sink audit.Sink, clock domain.Clock) *Engine {
	if clock == nil {
		clock = domain.SystemClock
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Engine{
		Tables:     tables,
		Patients:   patients,
		Requesters: requesters,
		Referrals:  referrals,
		Tokens:     issuer,
		Audit:      sink,
		Clock:      clock,
	}
}

// nationalHealthIDPattern is advisory: ids that do not match still go to the
// directory, they just get logged.
var nationalHealthIDPattern = regexp.MustCompile(`^CR\d{9}$`)

// Validate runs one request through the full pipeline and folds every stage
// failure into a decision. It never returns an error: internal faults become a
// system-error denial so the caller always gets an auditable outcome.
func (e *Engine) Validate(ctx context.Context, request domain.ConsentRequest, activeConsents []domain.Consent) domain.ConsentDecision {
	logger.Logger().Infof("validating consent request %s for patient %s", request.RequestID, request.PatientID)

	if failure := e.validateInput(request); failure != nil {
		return e.fold(failure)
	}

	patient, failure := e.validatePatient(request.PatientID, request.RequestID)
	if failure != nil {
		return e.fold(failure)
	}

	requester, failure := e.validateRequester(request.RequesterID, request.RequesterOrganization, request.RequestID)
	if failure != nil {
		return e.fold(failure)
	}

	// Emergency context short-circuits normal matching entirely.
	if request.EmergencyContext {
		return e.EvaluateEmergencyOverride(ctx, request, patient, requester)
	}

	relationshipScore := e.RelationshipScore(patient.ManagingOrganization, request.RequesterOrganization)

	var matched []domain.Consent
	var permissionSets []domain.DataPermissions
	for _, dataType := range request.DataTypes {
		best := e.FindBestMatch(activeConsents, dataType, request.Purpose, requester)
		if best == nil {
			return e.fold(stageErr(KindMatch, "consent_matching",
				"No valid consent found for data type: "+dataType).
				with("failed_data_type", dataType))
		}
		matched = append(matched, *best)

		permissions := e.EvaluatePermissions(best, dataType, request.Purpose, request.RequesterRole)
		if HasViolations(permissions) {
			return e.fold(stageErr(KindPermission, "permission_evaluation",
				"Granular permissions deny access").
				with("violations", permissions.Denied))
		}
		permissionSets = append(permissionSets, permissions)
	}

	best := e.SelectBestOverall(matched)

	if !e.validTemporalScope(best.Provision.DataPeriod, request.TimeRange) {
		return e.fold(stageErr(KindTemporal, "temporal_validation",
			"Request falls outside consent temporal scope"))
	}

	reuseScore := e.ReuseScore(&best, request, relationshipScore)
	if reuseScore < ReuseThreshold {
		return e.fold(stageErr(KindReuseBelowThreshold, "reuse_assessment",
			"Explicit patient consent required - reuse threshold not met").
			with("reuse_score", reuseScore).
			with("threshold", ReuseThreshold).
			with("required_action", "patient_notification"))
	}

	merged := MergePermissions(permissionSets)
	filtered := e.ApplyDataFiltering(merged, request.RequesterRole, request.Purpose, patient.Preferences)

	var consentEnd *time.Time
	if period := best.Provision.DataPeriod; period != nil && period.End != "" {
		if end, err := ParseStrict(period.End); err == nil {
			consentEnd = &end
		}
	}

	opaque, expiry, err := e.Tokens.Issue(filtered, consentEnd, requester, request)
	if err != nil {
		return systemErrorDecision(err)
	}

	_ = e.Audit.Emit(ctx, audit.ConsentUsageLogged, &audit.UsageData{
		ConsentID:     best.ID,
		RequestID:     request.RequestID,
		PatientID:     request.PatientID,
		RequesterID:   request.RequesterID,
		RequesterOrg:  request.RequesterOrganization,
		RequesterRole: request.RequesterRole,
		TokenRef:      token.Ref(opaque),
		UsageType:     "REUSED",
		DataTypes:     request.DataTypes,
		Purpose:       request.Purpose,
		Emergency:     request.EmergencyContext,
	})

	return domain.ConsentDecision{
		Decision:     domain.DecisionApproved,
		Reason:       "Consent reused based on existing valid consent",
		Permissions:  filtered,
		AccessToken:  opaque,
		ExpiryTime:   &expiry,
		Restrictions: filtered.Restrictions,
		AuditInfo: map[string]interface{}{
			"reuse_score":        reuseScore,
			"consent_id":         best.ID,
			"relationship_score": relationshipScore,
		},
	}
}

func (e *Engine) validateInput(request domain.ConsentRequest) *StageError {
	inputErr := func(reason string) *StageError {
		return stageErr(KindInput, "input_validation", reason).
			with("request_id", request.RequestID)
	}

	if strings.TrimSpace(request.PatientID) == "" {
		return inputErr("Patient ID is required")
	}
	if strings.TrimSpace(request.RequesterID) == "" {
		return inputErr("Requester ID is required")
	}
	if len(request.DataTypes) == 0 {
		return inputErr("At least one data type must be specified")
	}
	if !e.Tables.ValidPurpose(request.Purpose) {
		return inputErr(fmt.Sprintf("Invalid purpose code: %s", request.Purpose))
	}
	if request.TimeRange.Start != "" {
		if _, err := ParseStrict(request.TimeRange.Start); err != nil {
			return inputErr("Invalid date format in time range")
		}
	}
	if request.TimeRange.End != "" {
		if _, err := ParseStrict(request.TimeRange.End); err != nil {
			return inputErr("Invalid date format in time range")
		}
	}
	return nil
}

func (e *Engine) validatePatient(patientID, requestID string) (*domain.PatientIdentity, *StageError) {
	identityErr := stageErr(KindIdentity, "patient_validation", "Invalid patient identifier").
		with("request_id", requestID)

	if len(patientID) < 5 {
		return nil, identityErr
	}
	if !nationalHealthIDPattern.MatchString(patientID) {
		logger.Logger().Warnf("patient id %s does not match expected pattern", patientID)
	}

	patient, err := e.Patients.Lookup(patientID)
	if err != nil || !patient.Active {
		return nil, identityErr
	}
	return patient, nil
}

func (e *Engine) validateRequester(requesterID, organization, requestID string) (*domain.RequesterCredential, *StageError) {
	identityErr := stageErr(KindIdentity, "requester_validation", "Invalid requester credentials").
		with("request_id", requestID)

	if requesterID == "" || organization == "" {
		return nil, identityErr
	}
	requester, err := e.Requesters.Lookup(requesterID, organization)
	if err != nil || !requester.Active {
		return nil, identityErr
	}
	return requester, nil
}

// validTemporalScope checks that "now" lies inside the consent's validity and,
// when the request names a window, that the window fits inside the consent's.
// Malformed consent bounds fail closed.
func (e *Engine) validTemporalScope(consentPeriod *domain.Period, timeRange domain.Period) bool {
	if consentPeriod != nil {
		if !WithinPeriod(e.Clock.Now(), *consentPeriod) {
			logger.Logger().Warnf("consent period invalid: %s to %s", consentPeriod.Start, consentPeriod.End)
			return false
		}
		if timeRange.Start != "" && timeRange.End != "" {
			if !ContainsPeriod(*consentPeriod, timeRange) {
				logger.Logger().Warn("request time range outside consent period")
				return false
			}
		}
	}
	return true
}

// fold converts a stage error into the decision it stands for. Only
// reuse-below-threshold becomes PENDING; everything else denies.
func (e *Engine) fold(stageError *StageError) domain.ConsentDecision {
	decision := domain.DecisionDenied
	if stageError.Kind == KindReuseBelowThreshold {
		decision = domain.DecisionPending
	}
	auditInfo := map[string]interface{}{"step": stageError.Step}
	for key, value := range stageError.Audit {
		auditInfo[key] = value
	}
	return domain.ConsentDecision{
		Decision:  decision,
		Reason:    stageError.Reason,
		AuditInfo: auditInfo,
	}
}

func systemErrorDecision(err error) domain.ConsentDecision {
	logger.Logger().WithError(err).Error("error validating consent request")
	return domain.ConsentDecision{
		Decision:  domain.DecisionDenied,
		Reason:    "System error during validation: " + err.Error(),
		AuditInfo: map[string]interface{}{"error": err.Error(), "step": "system_error"},
	}
}
