package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akilivoice/pathrag/internal/engine"
	"github.com/akilivoice/pathrag/pkg/domain"
)

func TestDetectVendor(t *testing.T) {
	cases := []struct {
		utterance string
		vendorID  string
	}{
		{"it's a TP-Link", "tplink"},
		{"an Archer something", "tplink"},
		{"tp link mr600", "tplink"},
		{"Netgear Nighthawk", "netgear"},
		{"it says d-link on the box", "dlink"},
		{"ASUS ZenWiFi", "asus"},
		{"some white box, no idea", domain.GenericVendorID},
		{"", domain.GenericVendorID},
	}

	for _, tc := range cases {
		profile := engine.DetectVendor(tc.utterance)
		assert.Equal(t, tc.vendorID, profile.VendorID, "utterance %q", tc.utterance)
	}
}

func TestDetectVendor_GenericHasUsableDefaults(t *testing.T) {
	profile := engine.DetectVendor("huawei maybe")

	assert.Equal(t, domain.GenericVendorID, profile.VendorID)
	assert.NotEmpty(t, profile.DefaultGateway)
	assert.NotEmpty(t, profile.LEDIndicators)
}
