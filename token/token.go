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

package token

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consent-mgmt/consent-validation-service/audit"
	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
)

const bearerPrefix = "Bearer"
const emergencyPrefix = "Emergency"

// DefaultTokenDuration bounds tokens for purposes without a configured
// duration.
const DefaultTokenDuration = 24 * time.Hour

// EmergencyAccessDuration is the fixed lifetime of emergency override tokens.
const EmergencyAccessDuration = 24 * time.Hour

// Issuer synthesizes scoped access tokens and answers validation and
// revocation against the server-side store. The token string is the first 16
// hex characters of a one-way hash over the canonicalized payload plus a
// random suffix: a non-forgeable reference, not a decodable credential.
type Issuer struct {
	Store     Store
	Durations map[string]time.Duration
	Clock     domain.Clock
	Sink      audit.Sink
}

// Issue builds a bearer token for approved, filtered permissions. Expiry is
// the consent data-period end when present, otherwise now plus the purpose's
// default duration.
func (i *Issuer) Issue(permissions domain.DataPermissions, consentEnd *time.Time, requester *domain.RequesterCredential, request domain.ConsentRequest) (string, time.Time, error) {
	now := i.Clock.Now()
	expiry := now.Add(i.durationFor(request.Purpose))
	if consentEnd != nil {
		expiry = *consentEnd
	}

	tokenID := uuid.New().String()
	scope := Scope(permissions, request)
	payload := map[string]interface{}{
		"token_id":          tokenID,
		"patient_id":        request.PatientID,
		"requester_id":      requester.ID,
		"requester_org":     requester.Organization,
		"permissions":       permissions,
		"scope":             scope,
		"purpose":           request.Purpose,
		"issued_at":         now.Format(time.RFC3339),
		"expires_at":        expiry.Format(time.RFC3339),
		"emergency_context": request.EmergencyContext,
	}

	opaque, err := i.mint(bearerPrefix, tokenID, payload)
	if err != nil {
		return "", time.Time{}, err
	}

	record := Record{
		Token:        opaque,
		TokenID:      tokenID,
		PatientID:    request.PatientID,
		RequesterID:  requester.ID,
		RequesterOrg: requester.Organization,
		Purpose:      request.Purpose,
		Scope:        scope,
		IssuedAt:     now,
		ExpiresAt:    expiry,
	}
	if err := i.Store.Save(record); err != nil {
		return "", time.Time{}, err
	}
	return opaque, expiry, nil
}

// IssueEmergency builds an emergency-scoped token with the fixed 24 hour
// lifetime.
func (i *Issuer) IssueEmergency(request domain.ConsentRequest, requester *domain.RequesterCredential) (string, time.Time, error) {
	now := i.Clock.Now()
	expiry := now.Add(EmergencyAccessDuration)

	tokenID := uuid.New().String()
	scope := make([]string, 0, len(request.DataTypes)+3)
	for _, dataType := range request.DataTypes {
		scope = append(scope, "read:"+dataType)
	}
	scope = append(scope, "patient:"+request.PatientID, "purpose:"+request.Purpose, "emergency:true")

	payload := map[string]interface{}{
		"token_id":      tokenID,
		"emergency":     true,
		"patient_id":    request.PatientID,
		"requester_id":  request.RequesterID,
		"requester_org": request.RequesterOrganization,
		"purpose":       request.Purpose,
		"issued_at":     now.Format(time.RFC3339),
		"expires_at":    expiry.Format(time.RFC3339),
		"restrictions":  []string{"EMERGENCY_ONLY", "AUDIT_REQUIRED"},
	}

	opaque, err := i.mint(emergencyPrefix, tokenID, payload)
	if err != nil {
		return "", time.Time{}, err
	}

	record := Record{
		Token:        opaque,
		TokenID:      tokenID,
		PatientID:    request.PatientID,
		RequesterID:  requester.ID,
		RequesterOrg: requester.Organization,
		Purpose:      request.Purpose,
		Scope:        scope,
		IssuedAt:     now,
		ExpiresAt:    expiry,
		Emergency:    true,
	}
	if err := i.Store.Save(record); err != nil {
		return "", time.Time{}, err
	}
	return opaque, expiry, nil
}

// Validate checks shape, presence, revocation and expiry of a token against
// the store.
func (i *Issuer) Validate(opaque string) domain.TokenInfo {
	if !strings.HasPrefix(opaque, bearerPrefix+"_") && !strings.HasPrefix(opaque, emergencyPrefix+"_") {
		return domain.TokenInfo{Valid: false, Reason: "Invalid token format"}
	}
	if len(strings.Split(opaque, "_")) < 3 {
		return domain.TokenInfo{Valid: false, Reason: "Malformed token"}
	}

	record, err := i.Store.Get(opaque)
	if err != nil {
		return domain.TokenInfo{Valid: false, Reason: "Token not found"}
	}
	if record.Revoked {
		return domain.TokenInfo{Valid: false, Reason: "Token revoked"}
	}
	if i.Clock.Now().After(record.ExpiresAt) {
		return domain.TokenInfo{Valid: false, Reason: "Token expired"}
	}
	return domain.TokenInfo{
		Valid:       true,
		PatientID:   record.PatientID,
		RequesterID: record.RequesterID,
		Scope:       record.Scope,
		ExpiresAt:   record.ExpiresAt,
		Emergency:   record.Emergency,
	}
}

// Revoke marks a token revoked and emits a revocation audit event. Returns
// false for unknown or already revoked tokens.
func (i *Issuer) Revoke(ctx context.Context, opaque, reason string) bool {
	if reason == "" {
		reason = "User revocation"
	}
	if err := i.Store.Revoke(opaque, reason); err != nil {
		logger.Logger().WithError(err).Warnf("could not revoke token %s", Ref(opaque))
		return false
	}
	_ = i.Sink.Emit(ctx, audit.TokenRevoked, &audit.RevocationData{
		TokenRef:  Ref(opaque),
		Reason:    reason,
		RevokedBy: "system",
	})
	return true
}

// Scope derives the OAuth-style scope list from granted permissions.
func Scope(permissions domain.DataPermissions, request domain.ConsentRequest) []string {
	scope := make([]string, 0, len(permissions.Allowed)+len(permissions.Denied)+2)
	for _, dataType := range permissions.Allowed {
		scope = append(scope, "read:"+dataType)
	}
	scope = append(scope, "patient:"+request.PatientID)
	scope = append(scope, "purpose:"+request.Purpose)
	for _, denied := range permissions.Denied {
		scope = append(scope, "deny:"+denied)
	}
	return scope
}

// Ref returns the short reference used in audit output instead of the full
// token string.
func Ref(opaque string) string {
	if idx := strings.LastIndex(opaque, "_"); idx >= 0 {
		return opaque[idx+1:]
	}
	if len(opaque) > 8 {
		return opaque[:8]
	}
	return opaque
}

func (i *Issuer) durationFor(purpose string) time.Duration {
	if duration, ok := i.Durations[purpose]; ok {
		return duration
	}
	return DefaultTokenDuration
}

// mint canonicalizes the payload (encoding/json sorts map keys) and builds the
// opaque string <prefix>_<sha256[:16]>_<uuid[:8]>.
func (i *Issuer) mint(prefix, tokenID string, payload map[string]interface{}) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	digest := fmt.Sprintf("%x", sha256.Sum256(canonical))
	return fmt.Sprintf("%s_%s_%s", prefix, digest[:16], tokenID[:8]), nil
}
