package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pms-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Wireless Mouse":       "wireless-mouse",
		"  Café Orgánico 500g": "cafe-organico-500g",
		"USB-C -- Cable!!":     "usb-c-cable",
		"---":                  "",
		"Niño & Señora":        "nino-senora",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "entrada %q", in)
	}
}
