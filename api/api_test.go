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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
	"github.com/consent-mgmt/consent-validation-service/fixtures"
	"github.com/consent-mgmt/consent-validation-service/pkg"
)

var apiNow = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func setupWrapper(t *testing.T) Wrapper {
	vs := pkg.ValidationServiceInstance()
	if vs.Engine == nil {
		assert.NoError(t, vs.Start())
	}
	// pin the clock so the fixture consents stay within their validity
	clock := domain.FixedClock(apiNow)
	vs.Engine.Clock = clock
	vs.Issuer.Clock = clock
	return Wrapper{Vs: vs}
}

func postJSON(t *testing.T, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	server := echo.New()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(payload)))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	return server.NewContext(request, recorder), recorder
}

func TestValidateConsent(t *testing.T) {
	wrapper := setupWrapper(t)

	t.Run("approves a valid request", func(t *testing.T) {
		ctx, recorder := postJSON(t, ValidateConsentApiRequest{
			Request:        fixtures.SampleRequests()[0],
			ActiveConsents: fixtures.SampleActiveConsents(),
		})

		assert.NoError(t, wrapper.ValidateConsent(ctx))
		assert.Equal(t, http.StatusOK, recorder.Code)

		response := ValidateConsentApiResponse{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, domain.DecisionApproved, response.Decision.Decision)
		assert.NotEmpty(t, response.Decision.AccessToken)
		assert.Contains(t, response.Consent, `"resourceType":"Consent"`)
		assert.Contains(t, response.AuditEvent, `"resourceType":"AuditEvent"`)
	})

	t.Run("denial still yields an audit event", func(t *testing.T) {
		request := fixtures.SampleRequests()[0]
		request.PatientID = "INVALID-ID"
		ctx, recorder := postJSON(t, ValidateConsentApiRequest{
			Request:        request,
			ActiveConsents: fixtures.SampleActiveConsents(),
		})

		assert.NoError(t, wrapper.ValidateConsent(ctx))
		assert.Equal(t, http.StatusOK, recorder.Code)

		response := ValidateConsentApiResponse{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, domain.DecisionDenied, response.Decision.Decision)
		assert.Empty(t, response.Consent, "denials yield no Consent resource")
		assert.Contains(t, response.AuditEvent, `"outcome":"4"`)
	})

	t.Run("rejects incomplete requests", func(t *testing.T) {
		testcases := map[string]func(request *domain.ConsentRequest){
			"missing request id":  func(request *domain.ConsentRequest) { request.RequestID = "" },
			"missing patient id":  func(request *domain.ConsentRequest) { request.PatientID = "" },
			"missing requester":   func(request *domain.ConsentRequest) { request.RequesterID = "" },
			"missing data types":  func(request *domain.ConsentRequest) { request.DataTypes = nil },
		}
		for name, mutate := range testcases {
			t.Run(name, func(t *testing.T) {
				request := fixtures.SampleRequests()[0]
				mutate(&request)
				ctx, _ := postJSON(t, ValidateConsentApiRequest{Request: request})

				err := wrapper.ValidateConsent(ctx)
				if assert.Error(t, err) {
					httpError := err.(*echo.HTTPError)
					assert.Equal(t, http.StatusBadRequest, httpError.Code)
				}
			})
		}
	})
}

func TestTokenEndpoints(t *testing.T) {
	wrapper := setupWrapper(t)

	// approve a request to get a live token
	ctx, recorder := postJSON(t, ValidateConsentApiRequest{
		Request:        fixtures.SampleRequests()[0],
		ActiveConsents: fixtures.SampleActiveConsents(),
	})
	assert.NoError(t, wrapper.ValidateConsent(ctx))
	response := ValidateConsentApiResponse{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	opaque := response.Decision.AccessToken
	assert.NotEmpty(t, opaque)

	t.Run("validate a live token", func(t *testing.T) {
		ctx, recorder := postJSON(t, TokenApiRequest{Token: opaque})
		assert.NoError(t, wrapper.ValidateToken(ctx))

		info := domain.TokenInfo{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &info))
		assert.True(t, info.Valid)
	})

	t.Run("validate requires a token", func(t *testing.T) {
		ctx, _ := postJSON(t, TokenApiRequest{})
		err := wrapper.ValidateToken(ctx)
		if assert.Error(t, err) {
			assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
		}
	})

	t.Run("revoke then validate", func(t *testing.T) {
		ctx, recorder := postJSON(t, TokenApiRequest{Token: opaque, Reason: "test cleanup"})
		assert.NoError(t, wrapper.RevokeToken(ctx))

		revocation := RevokeApiResponse{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &revocation))
		assert.True(t, revocation.Revoked)

		ctx, recorder = postJSON(t, TokenApiRequest{Token: opaque})
		assert.NoError(t, wrapper.ValidateToken(ctx))
		info := domain.TokenInfo{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &info))
		assert.False(t, info.Valid)
		assert.Equal(t, "Token revoked", info.Reason)
	})

	t.Run("revoking an unknown token reports false", func(t *testing.T) {
		ctx, recorder := postJSON(t, TokenApiRequest{Token: "Bearer_0123456789abcdef_01234567"})
		assert.NoError(t, wrapper.RevokeToken(ctx))

		revocation := RevokeApiResponse{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &revocation))
		assert.False(t, revocation.Revoked)
	})
}

func TestRegisterHandlers(t *testing.T) {
	wrapper := setupWrapper(t)
	server := echo.New()
	RegisterHandlers(server, wrapper)

	routes := map[string]bool{}
	for _, route := range server.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	assert.True(t, routes["POST /internal/consent/validate"])
	assert.True(t, routes["POST /internal/token/validate"])
	assert.True(t, routes["POST /internal/token/revoke"])
}
