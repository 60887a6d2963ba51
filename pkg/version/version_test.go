package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bundlex/pkg/version"
)

func TestGet(t *testing.T) {
	v := version.Get()

	assert.Equal(t, version.Version, v.Version)
	assert.NotEmpty(t, v.GoVersion)
	assert.Contains(t, v.Platform, "/")
}

func TestString(t *testing.T) {
	s := version.Get().String()

	assert.Contains(t, s, "bundlex version")
	assert.Contains(t, s, version.Version)
}
