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

package audit

import (
	"time"

	eh "github.com/looplab/eventhorizon"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

const ConsentUsageLogged = eh.EventType("consent:usage-logged")
const EmergencyOverrideGranted = eh.EventType("consent:emergency-override")
const PostEmergencyReviewScheduled = eh.EventType("consent:review-scheduled")
const TokenRevoked = eh.EventType("token:revoked")

// UsageData records one reuse of an existing consent.
type UsageData struct {
	ConsentID     string
	RequestID     string
	PatientID     string
	RequesterID   string
	RequesterOrg  string
	RequesterRole string
	TokenRef      string
	UsageType     string
	DataTypes     []string
	Purpose       string
	Emergency     bool
}

// OverrideData records an emergency override grant. Always reviewed after the
// fact.
type OverrideData struct {
	RequestID      string
	PatientID      string
	RequesterID    string
	RequesterOrg   string
	RequesterRole  string
	License        string
	Permissions    domain.DataPermissions
	DataAccessed   []string
	Justification  string
	ReviewRequired bool
	AlertLevel     string
}

// ReviewData is the scheduled post-emergency review task.
type ReviewData struct {
	TaskID         string
	RequestID      string
	PatientID      string
	RequesterID    string
	DataAccessed   []string
	ReviewDeadline time.Time
	Priority       string
	Status         string
}

// RevocationData records a token revocation.
type RevocationData struct {
	TokenRef  string
	Reason    string
	RevokedBy string
}

func init() {
	eh.RegisterEventData(ConsentUsageLogged, func() eh.EventData {
		return &UsageData{}
	})
	eh.RegisterEventData(EmergencyOverrideGranted, func() eh.EventData {
		return &OverrideData{}
	})
	eh.RegisterEventData(PostEmergencyReviewScheduled, func() eh.EventData {
		return &ReviewData{}
	})
	eh.RegisterEventData(TokenRevoked, func() eh.EventData {
		return &RevocationData{}
	})
}
