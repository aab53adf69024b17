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

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/fhir"
	"github.com/consent-mgmt/consent-validation-service/pkg"
)

// Wrapper exposes the validation service over HTTP.
type Wrapper struct {
	Vs *pkg.ValidationService
}

// ValidateConsentApiRequest is the body of a validation call: the access
// request plus the patient's active consents, supplied by the caller's
// consent store.
type ValidateConsentApiRequest struct {
	Request        domain.ConsentRequest `json:"request"`
	ActiveConsents []domain.Consent      `json:"activeConsents"`
}

// ValidateConsentApiResponse carries the decision and its FHIR projections.
type ValidateConsentApiResponse struct {
	Decision   domain.ConsentDecision `json:"decision"`
	Consent    string                 `json:"fhirConsent,omitempty"`
	AuditEvent string                 `json:"fhirAuditEvent,omitempty"`
}

type TokenApiRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason,omitempty"`
}

type RevokeApiResponse struct {
	Revoked bool `json:"revoked"`
}

// EchoRouter is the subset of echo the handlers register on.
type EchoRouter interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds the validation routes to the router.
func RegisterHandlers(router EchoRouter, wrapper Wrapper) {
	router.Add(http.MethodPost, "/internal/consent/validate", wrapper.ValidateConsent)
	router.Add(http.MethodPost, "/internal/token/validate", wrapper.ValidateToken)
	router.Add(http.MethodPost, "/internal/token/revoke", wrapper.RevokeToken)
}

// ValidateConsent runs a consent request through the decision engine and
// returns the decision with its FHIR Consent and AuditEvent projections.
func (wrapper Wrapper) ValidateConsent(ctx echo.Context) error {
	apiRequest := &ValidateConsentApiRequest{}
	if err := ctx.Bind(apiRequest); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	if apiRequest.Request.RequestID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "the request requires a requestId")
	}
	if apiRequest.Request.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "the request requires a patientId")
	}
	if apiRequest.Request.RequesterID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "the request requires a requesterId")
	}
	if len(apiRequest.Request.DataTypes) < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "the request requires at least one data type")
	}

	decision := wrapper.Vs.ValidateConsentRequest(ctx.Request().Context(), apiRequest.Request, apiRequest.ActiveConsents)

	clock := wrapper.Vs.Engine.Clock
	consentResource, err := fhir.RenderConsent(apiRequest.Request, decision, clock)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	auditEvent, err := fhir.RenderAuditEvent(apiRequest.Request, decision, clock)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, ValidateConsentApiResponse{
		Decision:   decision,
		Consent:    consentResource,
		AuditEvent: auditEvent,
	})
}

// ValidateToken answers whether an access token is still valid.
func (wrapper Wrapper) ValidateToken(ctx echo.Context) error {
	apiRequest := &TokenApiRequest{}
	if err := ctx.Bind(apiRequest); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}
	if apiRequest.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "a token is required")
	}
	return ctx.JSON(http.StatusOK, wrapper.Vs.ValidateAccessToken(apiRequest.Token))
}

// RevokeToken revokes an access token. Unknown tokens report revoked=false.
func (wrapper Wrapper) RevokeToken(ctx echo.Context) error {
	apiRequest := &TokenApiRequest{}
	if err := ctx.Bind(apiRequest); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}
	if apiRequest.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "a token is required")
	}
	revoked := wrapper.Vs.RevokeAccessToken(ctx.Request().Context(), apiRequest.Token, apiRequest.Reason)
	return ctx.JSON(http.StatusOK, RevokeApiResponse{Revoked: revoked})
}
