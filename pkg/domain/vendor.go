package domain

// VendorProfile describes a router brand well enough to tailor gateway
// addresses and LED vocabulary in spoken instructions.
type VendorProfile struct {
	VendorID           string              `json:"vendor_id" mapstructure:"vendor_id"`
	Name               string              `json:"name" mapstructure:"name"`
	DefaultGateway     string              `json:"default_gateway" mapstructure:"default_gateway"`
	AltGateway         string              `json:"alt_gateway,omitempty" mapstructure:"alt_gateway"`
	LoginPagePath      string              `json:"login_page_path" mapstructure:"login_page_path"`
	SupportedFirmwares []string            `json:"supported_firmwares" mapstructure:"supported_firmwares"`
	LEDIndicators      map[string][]string `json:"led_indicators" mapstructure:"led_indicators"`
}

// GenericVendorID is the profile used when brand detection finds nothing.
const GenericVendorID = "generic"

// VendorProfiles is the built-in registry of supported router brands.
var VendorProfiles = map[string]VendorProfile{
	"tplink": {
		VendorID:           "tplink",
		Name:               "TP-Link",
		DefaultGateway:     "192.168.0.1",
		AltGateway:         "192.168.1.1",
		LoginPagePath:      "/",
		SupportedFirmwares: []string{"v2", "v3", "v4"},
		LEDIndicators: map[string][]string{
			"power":    {"solid_green", "off"},
			"internet": {"solid_green", "solid_orange", "blinking_green", "off"},
			"wifi":     {"solid_green", "blinking_green", "off"},
		},
	},
	"netgear": {
		VendorID:           "netgear",
		Name:               "NETGEAR",
		DefaultGateway:     "192.168.1.1",
		LoginPagePath:      "/",
		SupportedFirmwares: []string{"v1", "v2"},
		LEDIndicators: map[string][]string{
			"power":    {"solid_green", "solid_amber", "off"},
			"internet": {"solid_green", "solid_amber", "off"},
			"wifi":     {"solid_green", "off"},
		},
	},
	"dlink": {
		VendorID:           "dlink",
		Name:               "D-Link",
		DefaultGateway:     "192.168.0.1",
		LoginPagePath:      "/",
		SupportedFirmwares: []string{"v1", "v2"},
		LEDIndicators: map[string][]string{
			"power":    {"solid_green", "off"},
			"internet": {"solid_green", "solid_red", "off"},
			"wifi":     {"solid_green", "blinking_green", "off"},
		},
	},
	"asus": {
		VendorID:           "asus",
		Name:               "ASUS",
		DefaultGateway:     "192.168.1.1",
		LoginPagePath:      "/",
		SupportedFirmwares: []string{"asuswrt", "merlin"},
		LEDIndicators: map[string][]string{
			"power":    {"solid_white", "off"},
			"internet": {"solid_white", "solid_red", "off"},
			"wifi":     {"solid_white", "off"},
		},
	},
	GenericVendorID: {
		VendorID:           GenericVendorID,
		Name:               "Generic Router",
		DefaultGateway:     "192.168.1.1",
		LoginPagePath:      "/",
		SupportedFirmwares: []string{"generic"},
		LEDIndicators: map[string][]string{
			"power":    {"on", "off"},
			"internet": {"on", "blinking", "off"},
			"wifi":     {"on", "off"},
		},
	},
}

// VendorProfileByID looks up a profile, falling back to the generic one.
func VendorProfileByID(id string) VendorProfile {
	if p, ok := VendorProfiles[id]; ok {
		return p
	}
	return VendorProfiles[GenericVendorID]
}
