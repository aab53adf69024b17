package pkg

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

func TestValidationServiceInstance(t *testing.T) {
	first := ValidationServiceInstance()
	second := ValidationServiceInstance()
	assert.Same(t, first, second)
}

func TestStartWiresTheService(t *testing.T) {
	vs := &ValidationService{}
	assert.NoError(t, vs.Start())
	assert.NotNil(t, vs.Engine)
	assert.NotNil(t, vs.Issuer)
	assert.NotNil(t, vs.TokenStore)
	assert.NotNil(t, vs.EventBus)
	assert.NoError(t, vs.Shutdown())
}

// A panic anywhere in the pipeline must surface as a system-error denial, not
// crash the caller.
func TestValidateConsentRequestRecoversFromPanics(t *testing.T) {
	vs := &ValidationService{} // engine left nil on purpose

	decision := vs.ValidateConsentRequest(context.Background(), domain.ConsentRequest{
		RequestID:   "req-panic",
		PatientID:   "CR123456789",
		RequesterID: "dr-smith-001",
		DataTypes:   []string{"Patient.demographics"},
		Purpose:     "TREAT",
	}, nil)

	assert.Equal(t, domain.DecisionDenied, decision.Decision)
	assert.True(t, strings.HasPrefix(decision.Reason, "System error during validation:"))
	assert.Equal(t, "system_error", decision.AuditInfo["step"])
	assert.NotEmpty(t, decision.AuditInfo["error"])
}
