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

package domain

import (
	"time"
)

// ConsentStatus is the lifecycle status of a stored consent. Only StatusActive
// consents participate in matching.
type ConsentStatus string

const (
	StatusDraft          ConsentStatus = "draft"
	StatusProposed       ConsentStatus = "proposed"
	StatusActive         ConsentStatus = "active"
	StatusRejected       ConsentStatus = "rejected"
	StatusInactive       ConsentStatus = "inactive"
	StatusEnteredInError ConsentStatus = "entered-in-error"
)

// DecisionType is the outcome kind of a validation call.
type DecisionType string

const (
	DecisionApproved DecisionType = "approved"
	DecisionDenied   DecisionType = "denied"
	DecisionPending  DecisionType = "pending"
)

// SensitivityLevel classifies how protected a data category is.
type SensitivityLevel int

const (
	SensitivityLow SensitivityLevel = iota + 1
	SensitivityLowMedium
	SensitivityMedium
	SensitivityHigh
	SensitivityCritical
)

// Period holds the raw start/end texts of a validity or request window.
// Values stay textual until a component needs them parsed, so a malformed
// consent never poisons an unrelated field.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// ConsentRequest identifies one access attempt. Immutable once constructed.
type ConsentRequest struct {
	RequestID             string    `json:"requestId"`
	PatientID             string    `json:"patientId"`
	RequesterID           string    `json:"requesterId"`
	RequesterOrganization string    `json:"requesterOrganization"`
	RequesterRole         string    `json:"requesterRole"`
	DataTypes             []string  `json:"dataTypes"`
	Purpose               string    `json:"purpose"`
	TimeRange             Period    `json:"timeRange"`
	EmergencyContext      bool      `json:"emergencyContext"`
	Timestamp             time.Time `json:"timestamp"`
}

// Coding is a single system/code/display triple.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// ClassEntry names a data class covered by a provision.
type ClassEntry struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

// PurposeEntry names a purpose-of-use covered by a provision.
type PurposeEntry struct {
	System string `json:"system,omitempty"`
	Code   string `json:"code"`
}

// CodeEntry carries coded (LOINC/SNOMED) restrictions inside a nested provision.
type CodeEntry struct {
	Coding []Coding `json:"coding,omitempty"`
}

// Actor scopes a provision to an organization, practitioner or role.
type Actor struct {
	Role      []Coding `json:"role,omitempty"`
	Reference string   `json:"reference,omitempty"`
}

// Provision is the permit/deny clause tree inside a consent. Nested provisions
// express exceptions scoped to specific classes or codes.
type Provision struct {
	Type          string        `json:"type"`
	DataPeriod    *Period       `json:"dataPeriod,omitempty"`
	Class         []ClassEntry  `json:"class,omitempty"`
	Code          []CodeEntry   `json:"code,omitempty"`
	Purpose       []PurposeEntry `json:"purpose,omitempty"`
	Actor         []Actor       `json:"actor,omitempty"`
	Provisions    []Provision   `json:"provision,omitempty"`
	SecurityLabel []Coding      `json:"securityLabel,omitempty"`
}

// Consent is a previously granted authorization, supplied read-only per call.
type Consent struct {
	ID         string        `json:"id"`
	Status     ConsentStatus `json:"status"`
	DateTime   string        `json:"dateTime,omitempty"`
	PatientRef string        `json:"patientRef,omitempty"`
	Provision  Provision     `json:"provision"`
}

// DataPermissions holds the granular allow/deny/mask/pseudonymize sets derived
// for a request. A field may appear in more than one set when policies
// conflict; denied dominates allowed.
type DataPermissions struct {
	Allowed        []string `json:"allowed"`
	Denied         []string `json:"denied"`
	Masked         []string `json:"masked"`
	Pseudonymized  []string `json:"pseudonymized"`
	Restrictions   []string `json:"restrictions,omitempty"`
}

// ConsentDecision is the validation outcome. Produced fresh per call, never
// mutated after construction. AccessToken is non-empty only for approvals.
type ConsentDecision struct {
	Decision     DecisionType           `json:"decision"`
	Reason       string                 `json:"reason"`
	Permissions  DataPermissions        `json:"permissions"`
	AccessToken  string                 `json:"accessToken,omitempty"`
	ExpiryTime   *time.Time             `json:"expiryTime,omitempty"`
	Restrictions []string               `json:"restrictions,omitempty"`
	AuditInfo    map[string]interface{} `json:"auditInfo,omitempty"`
}

// Preferences is the patient preference record from the patient directory.
type Preferences struct {
	MarketingOptOut       bool   `json:"marketingOptOut"`
	DataMaskingPreference string `json:"dataMaskingPreference,omitempty"`
	NotificationMethod    string `json:"notificationMethod,omitempty"`
}

// PatientIdentity is the patient directory record.
type PatientIdentity struct {
	ID                   string      `json:"id"`
	ManagingOrganization string      `json:"managingOrganization,omitempty"`
	Preferences          Preferences `json:"preferences"`
	Active               bool        `json:"active"`
}

// RequesterCredential is the verified requester directory record.
type RequesterCredential struct {
	ID           string `json:"id"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Verified     bool   `json:"verified"`
	Active       bool   `json:"active"`
	License      string `json:"license,omitempty"`
	Department   string `json:"department,omitempty"`
	IRBApproval  string `json:"irbApproval,omitempty"`
}

// TokenInfo is the result of validating an access token against the store.
type TokenInfo struct {
	Valid       bool      `json:"valid"`
	Reason      string    `json:"reason,omitempty"`
	PatientID   string    `json:"patientId,omitempty"`
	RequesterID string    `json:"requesterId,omitempty"`
	Scope       []string  `json:"scope,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	Emergency   bool      `json:"emergency,omitempty"`
}
