package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Western States 100", "western-states-100"},
		{"Leadville Trail 100", "leadville-trail-100"},
		{"Fat Dog's 120", "fat-dogs-120"},
		{"  UTMB  ", "utmb"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SlugFromName(tc.name), "name %q", tc.name)
	}
}
