package genres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValid("FIC_SFF"))
	assert.True(t, IsValid("OTH_OTHER"))
	assert.False(t, IsValid("FIC_UNKNOWN"))
	assert.False(t, IsValid(""))
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Science Fiction/Fantasy", DisplayName("FIC_SFF"))
	assert.Equal(t, "Biography/Memoir", DisplayName("NON_BIO"))
	// Unknown codes fall back to the code itself.
	assert.Equal(t, "XYZ", DisplayName("XYZ"))
}

func TestAllCodesUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, g := range All {
		assert.False(t, seen[g.Code], "duplicate genre code %s", g.Code)
		seen[g.Code] = true
	}
}
