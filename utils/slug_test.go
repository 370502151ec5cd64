package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Rose Lip Tint":        "rose-lip-tint",
		"  Vitamin C+ Serum  ": "vitamin-c-serum",
		"MATTE---finish":       "matte-finish",
		"Kajal 2.0":            "kajal-2-0",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in))
	}
}
