package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

func TestNewParty(t *testing.T) {
	t.Run("creates party with lower-cased email and primary email contact", func(t *testing.T) {
		p, err := NewParty("John", "Doe", "  John.Doe@Example.COM ", ClassificationMarketplaceCustomer)
		require.NoError(t, err)

		assert.Equal(t, "john.doe@example.com", p.ExternalEmail)
		assert.Equal(t, "John Doe", p.FullName())
		require.Len(t, p.Emails, 1)
		assert.Equal(t, "john.doe@example.com", p.Emails[0].Address)
		assert.Equal(t, ContactPurposePrimary, p.Emails[0].Purpose)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewParty("John", "Doe", "", ClassificationMarketplaceCustomer)
		assert.Error(t, err)
	})

	t.Run("rejects unknown classification", func(t *testing.T) {
		_, err := NewParty("John", "Doe", "a@b.com", Classification("WALK_IN"))
		assert.Error(t, err)
	})
}

func TestSplitPostalCode(t *testing.T) {
	base, ext := SplitPostalCode("95008-1234")
	assert.Equal(t, "95008", base)
	assert.Equal(t, "1234", ext)

	base, ext = SplitPostalCode("95008")
	assert.Equal(t, "95008", base)
	assert.Equal(t, "", ext)
}

func TestPostalAddressMatching(t *testing.T) {
	p, err := NewParty("Jane", "Roe", "jane@example.com", ClassificationMarketplaceCustomer)
	require.NoError(t, err)

	existing := NewPostalAddress("Jane Roe", "123 Main St.", "Apt 4", "Campbell", "95008-1234", ContactPurposeShipping)
	p.AddAddress(existing)

	t.Run("matches under case and punctuation differences", func(t *testing.T) {
		candidate := NewPostalAddress("J Roe", "123 MAIN ST", "APT 4", "campbell", "95008", ContactPurposeShipping)
		match := p.FindMatchingAddress(candidate)
		require.NotNil(t, match)
		assert.Equal(t, "123 Main St.", match.Address1)
	})

	t.Run("different street does not match", func(t *testing.T) {
		candidate := NewPostalAddress("Jane Roe", "124 Main St", "Apt 4", "Campbell", "95008", ContactPurposeShipping)
		assert.Nil(t, p.FindMatchingAddress(candidate))
	})

	t.Run("different postal code does not match", func(t *testing.T) {
		candidate := NewPostalAddress("Jane Roe", "123 Main St", "Apt 4", "Campbell", "95014", ContactPurposeShipping)
		assert.Nil(t, p.FindMatchingAddress(candidate))
	})
}

func TestPhoneContacts(t *testing.T) {
	p, err := NewParty("Jane", "Roe", "jane@example.com", ClassificationMarketplaceCustomer)
	require.NoError(t, err)

	num, ok := valueobject.ParsePhoneNumber("(408) 555-1234")
	require.True(t, ok)

	p.AddPhone(num, ContactPurposeShipping)

	same, ok := valueobject.ParsePhoneNumber("408-555-1234")
	require.True(t, ok)
	assert.NotNil(t, p.FindPhone(same))

	other, ok := valueobject.ParsePhoneNumber("408-555-9999")
	require.True(t, ok)
	assert.Nil(t, p.FindPhone(other))
}
