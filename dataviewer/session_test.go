package dataviewer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionFromTitle(t *testing.T) {
	s, err := NewSession("Strain Overview (L1)")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^strain-overview-l1-[0-9a-f]{8}$`), s.Name)
	assert.NotEmpty(t, s.ID)
}

func TestNewSessionGeneratedName(t *testing.T) {
	a, err := NewSession("")
	require.NoError(t, err)
	b, err := NewSession("")
	require.NoError(t, err)

	assert.NotEmpty(t, a.Name)
	assert.NotEqual(t, a.Name, b.Name)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "strain-overview", slugify("Strain Overview"))
	assert.Equal(t, "l1-gds", slugify("  L1::GDS  "))
	assert.Equal(t, "", slugify("!!!"))
	assert.Equal(t, "a-b", slugify("a___b"))
}
