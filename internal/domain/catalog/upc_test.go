package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandUPCE(t *testing.T) {
	t.Run("last digit 1 pattern", func(t *testing.T) {
		upca, err := ExpandUPCE("04252614")
		require.NoError(t, err)
		assert.Equal(t, "042100005264", upca)
		assert.True(t, IsValidUPCA(upca))
	})

	t.Run("last digit 3 pattern", func(t *testing.T) {
		upca, err := ExpandUPCE("01234531")
		require.NoError(t, err)
		assert.Equal(t, "012300000451", upca)
		assert.True(t, IsValidUPCA(upca))
	})

	t.Run("last digit 4 pattern", func(t *testing.T) {
		upca, err := ExpandUPCE("01234543")
		require.NoError(t, err)
		assert.Equal(t, "012340000053", upca)
		assert.True(t, IsValidUPCA(upca))
	})

	t.Run("last digit 5-9 pattern", func(t *testing.T) {
		upca, err := ExpandUPCE("01234558")
		require.NoError(t, err)
		assert.Equal(t, "012345000058", upca)
		assert.True(t, IsValidUPCA(upca))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ExpandUPCE("123456")
		assert.ErrorIs(t, err, ErrInvalidUPCE)
	})

	t.Run("rejects non-digits", func(t *testing.T) {
		_, err := ExpandUPCE("0425261X")
		assert.ErrorIs(t, err, ErrInvalidUPCE)
	})

	t.Run("rejects number system other than 0 or 1", func(t *testing.T) {
		_, err := ExpandUPCE("94252614")
		assert.ErrorIs(t, err, ErrInvalidUPCE)
	})
}

func TestIsValidUPCA(t *testing.T) {
	assert.True(t, IsValidUPCA("042100005264"))
	assert.False(t, IsValidUPCA("042100005265")) // bad check digit
	assert.False(t, IsValidUPCA("04210000526"))  // too short
	assert.False(t, IsValidUPCA("04210000526X"))
}
