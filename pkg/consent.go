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

package pkg

import (
	"context"
	"fmt"
	"sync"

	eh "github.com/looplab/eventhorizon"
	"github.com/looplab/eventhorizon/eventbus/local"

	"github.com/consent-mgmt/consent-validation-service/audit"
	"github.com/consent-mgmt/consent-validation-service/directory"
	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/pkg/logger"
	"github.com/consent-mgmt/consent-validation-service/policy"
	"github.com/consent-mgmt/consent-validation-service/token"
	"github.com/consent-mgmt/consent-validation-service/validation"
)

type ValidationServiceConfig struct {
	Address  string
	LogLevel string
}

// ValidationServiceClient is the boundary other engines and the HTTP layer
// talk to.
type ValidationServiceClient interface {
	ValidateConsentRequest(ctx context.Context, request domain.ConsentRequest, activeConsents []domain.Consent) domain.ConsentDecision
	ValidateAccessToken(token string) domain.TokenInfo
	RevokeAccessToken(ctx context.Context, token, reason string) bool
}

// ValidationService wires the decision engine, directories, token issuer and
// the audit event bus together.
type ValidationService struct {
	Config     ValidationServiceConfig
	Engine     *validation.Engine
	Issuer     *token.Issuer
	TokenStore token.Store
	EventBus   eh.EventBus
}

var instance *ValidationService
var oneEngine sync.Once

func ValidationServiceInstance() *ValidationService {
	oneEngine.Do(func() {
		instance = &ValidationService{}
	})
	return instance
}

func (vs *ValidationService) Configure() error {
	return nil
}

// Start builds the runtime wiring: a local event bus carrying the audit
// stream, the event logger and the post-emergency review scheduler as
// subscribers, an in-memory token store and the decision engine over the
// sample directories.
func (vs *ValidationService) Start() error {
	eventbus := local.NewEventBus(local.NewGroup())
	eventbus.AddObserver(eh.MatchAny(), logger.EventLogger{})

	clock := domain.SystemClock
	sink := &audit.BusSink{Bus: eventbus, Clock: clock}
	eventbus.AddHandler(eh.MatchEvent(audit.EmergencyOverrideGranted), audit.ReviewScheduler{Sink: sink, Clock: clock})

	tables := policy.DefaultTables()
	patients, requesters, referrals := directory.NewSampleDirectories()

	store := token.NewMemoryStore()
	issuer := &token.Issuer{
		Store:     store,
		Durations: tables.PurposeDurations,
		Clock:     clock,
		Sink:      sink,
	}

	vs.EventBus = eventbus
	vs.TokenStore = store
	vs.Issuer = issuer
	vs.Engine = validation.NewEngine(tables, patients, requesters, referrals, issuer, sink, clock)
	return nil
}

func (vs *ValidationService) Shutdown() error {
	return nil
}

// ValidateConsentRequest runs one request through the pipeline. A panic in
// the pipeline becomes a system-error denial so callers always receive a
// decision.
func (vs *ValidationService) ValidateConsentRequest(ctx context.Context, request domain.ConsentRequest, activeConsents []domain.Consent) (decision domain.ConsentDecision) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logger.Logger().WithError(err).Error("error validating consent request")
			decision = domain.ConsentDecision{
				Decision:  domain.DecisionDenied,
				Reason:    "System error during validation: " + err.Error(),
				AuditInfo: map[string]interface{}{"error": err.Error(), "step": "system_error"},
			}
		}
	}()
	return vs.Engine.Validate(ctx, request, activeConsents)
}

func (vs *ValidationService) ValidateAccessToken(opaque string) domain.TokenInfo {
	return vs.Issuer.Validate(opaque)
}

func (vs *ValidationService) RevokeAccessToken(ctx context.Context, opaque, reason string) bool {
	return vs.Issuer.Revoke(ctx, opaque, reason)
}
