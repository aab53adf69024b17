package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consent-mgmt/consent-validation-service/domain"
)

func TestMemoryDirectories(t *testing.T) {
	patients, requesters, referrals := NewSampleDirectories()

	t.Run("patient lookup", func(t *testing.T) {
		patient, err := patients.Lookup("CR123456789")
		assert.NoError(t, err)
		assert.Equal(t, "moh-kenya", patient.ManagingOrganization)
		assert.True(t, patient.Preferences.MarketingOptOut)

		_, err = patients.Lookup("CR000000000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("requester lookup checks the organization", func(t *testing.T) {
		requester, err := requesters.Lookup("dr-smith-001", "knh-hospital")
		assert.NoError(t, err)
		assert.Equal(t, "physician", requester.Role)

		_, err = requesters.Lookup("dr-smith-001", "mp-hospital")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("referrals are directional", func(t *testing.T) {
		assert.True(t, referrals.HasActiveReferral("rural-clinic", "knh-hospital"))
		assert.False(t, referrals.HasActiveReferral("knh-hospital", "rural-clinic"))
	})

	t.Run("lookup returns a copy", func(t *testing.T) {
		patient, err := patients.Lookup("CR123456789")
		assert.NoError(t, err)
		patient.ManagingOrganization = "changed"

		again, err := patients.Lookup("CR123456789")
		assert.NoError(t, err)
		assert.Equal(t, "moh-kenya", again.ManagingOrganization)
	})
}
