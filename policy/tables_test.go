package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

func TestSensitivityOf(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, domain.SensitivityLow, tables.SensitivityOf("Patient.demographics"))
	assert.Equal(t, domain.SensitivityCritical, tables.SensitivityOf("Condition.mental-health"))
	assert.Equal(t, domain.SensitivityCritical, tables.SensitivityOf("Observation.genetic"))
	assert.Equal(t, domain.SensitivityLowMedium, tables.SensitivityOf("Something.unknown"), "unknown types default to LOW_MEDIUM")
}

func TestValidPurpose(t *testing.T) {
	tables := DefaultTables()

	for _, purpose := range []string{"TREAT", "ETREAT", "HPAYMT", "HOPERAT", "HRESCH", "PUBHLTH", "HMARKT", "HDIRECT"} {
		assert.True(t, tables.ValidPurpose(purpose), purpose)
	}
	assert.False(t, tables.ValidPurpose("GOSSIP"))
	assert.False(t, tables.ValidPurpose(""))
}

func TestPurposeCompatible(t *testing.T) {
	tables := DefaultTables()

	testcases := map[string]struct {
		consent   string
		requested string
		exp       bool
	}{
		"treatment covers emergency": {"TREAT", "ETREAT", true},
		"emergency covers treatment": {"ETREAT", "TREAT", true},
		"research covers treatment":  {"HRESCH", "TREAT", true},
		"asymmetric relation":        {"TREAT", "HRESCH", false},
		"marketing is standalone":    {"HMARKT", "TREAT", false},
		"unknown consent purpose":    {"UNKNOWN", "TREAT", false},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testcase.exp, tables.PurposeCompatible(testcase.consent, testcase.requested))
		})
	}
}

func TestRoleProfiles(t *testing.T) {
	tables := DefaultTables()

	t.Run("only clinical roles may override emergencies", func(t *testing.T) {
		assert.True(t, tables.Role("physician").CanOverrideEmergency)
		assert.True(t, tables.Role("nurse").CanOverrideEmergency)
		assert.False(t, tables.Role("pharmacist").CanOverrideEmergency)
		assert.False(t, tables.Role("billing").CanOverrideEmergency)
		assert.False(t, tables.Role("researcher").CanOverrideEmergency)
	})

	t.Run("unknown role gets a zero profile", func(t *testing.T) {
		profile := tables.Role("janitor")
		assert.Empty(t, profile.AllowedData)
		assert.False(t, profile.CanOverrideEmergency)
	})
}

func TestExcludedCode(t *testing.T) {
	tables := DefaultTables()

	assert.True(t, tables.ExcludedCode("33747-0", "Observation.laboratory"))
	assert.True(t, tables.ExcludedCode("Drug-screen", "Observation.laboratory"))
	assert.False(t, tables.ExcludedCode("8310-5", "Observation.vital-signs"))
	assert.False(t, tables.ExcludedCode("33747-0", "Patient.demographics"))
}

func TestMatchesDataType(t *testing.T) {
	testcases := map[string]struct {
		classCode string
		requested string
		exp       bool
	}{
		"exact":                {"Observation.laboratory", "Observation.laboratory", true},
		"hierarchical":         {"Patient", "Patient.demographics", true},
		"trailing wildcard":    {"Observation.*", "Observation.genetic", true},
		"sibling no match":     {"Observation.vital-signs", "Observation.laboratory", false},
		"plain both no match":  {"Patient", "Observation", false},
		"reverse hierarchy no": {"Patient.demographics", "Patient", false},
	}

	for name, testcase := range testcases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testcase.exp, MatchesDataType(testcase.classCode, testcase.requested))
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, MatchesPattern("Condition.mental-health", "*"))
	assert.True(t, MatchesPattern("Observation.laboratory", "Observation.*"))
	assert.True(t, MatchesPattern("Patient.demographics", "Patient.demographics"))
	assert.False(t, MatchesPattern("Patient.demographics", "Observation.*"))
	assert.False(t, MatchesPattern("Patient", "Patient.demographics"))
}
