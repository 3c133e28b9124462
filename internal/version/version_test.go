package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGettersMatchInfo(t *testing.T) {
	v, c, d := Info()
	assert.NotEmpty(t, v)
	assert.Equal(t, v, GetVersion())
	assert.Equal(t, c, GetCommit())
	assert.Equal(t, d, GetDate())
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=", "commit=", "date="} {
		assert.True(t, strings.Contains(s, part), "missing %q in %q", part, s)
	}
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "cartstore-inventory/"+GetVersion(), UserAgent("inventory"))
}
