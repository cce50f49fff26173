// Package assets provides the built-in catalog of visual guides shown
// alongside diagnostic steps: LED diagrams, cable illustrations, and
// vendor dashboard screenshots, indexed by node id.
package assets

import "github.com/akilivoice/pathrag/pkg/domain"

// DefaultBaseURL is where the guide images are served from. Override it
// with WithBaseURL when fronting the files with a CDN.
const DefaultBaseURL = "/assets/router-guides"

// Catalog implements ports.AssetCatalog over a static asset table.
type Catalog struct {
	assets []domain.RouterAsset
	byNode map[string][]domain.RouterAsset
	byID   map[string]domain.RouterAsset
}

// Option configures the Catalog.
type Option func(*catalogConfig)

type catalogConfig struct {
	baseURL string
	extra   []domain.RouterAsset
}

// WithBaseURL rewrites asset URLs onto a different base, e.g. a CDN host.
func WithBaseURL(base string) Option {
	return func(c *catalogConfig) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithAssets appends additional assets to the built-in table.
func WithAssets(assets ...domain.RouterAsset) Option {
	return func(c *catalogConfig) {
		c.extra = append(c.extra, assets...)
	}
}

// NewCatalog builds the catalog with the built-in asset table.
func NewCatalog(opts ...Option) *Catalog {
	cfg := catalogConfig{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	all := builtinAssets(cfg.baseURL)
	all = append(all, cfg.extra...)

	c := &Catalog{
		assets: all,
		byNode: make(map[string][]domain.RouterAsset),
		byID:   make(map[string]domain.RouterAsset, len(all)),
	}
	for _, a := range all {
		c.byNode[a.NodeID] = append(c.byNode[a.NodeID], a)
		c.byID[a.AssetID] = a
	}
	return c
}

// AssetsFor returns the visual guides attached to a node, in table order.
func (c *Catalog) AssetsFor(nodeID string) []domain.RouterAsset {
	return append([]domain.RouterAsset(nil), c.byNode[nodeID]...)
}

// ForVendor returns assets usable for a vendor: its own plus the generic set.
func (c *Catalog) ForVendor(vendorID string) []domain.RouterAsset {
	var out []domain.RouterAsset
	for _, a := range c.assets {
		if a.Vendor == vendorID || a.Vendor == domain.GenericVendorID {
			out = append(out, a)
		}
	}
	return out
}

// ByID looks up a single asset.
func (c *Catalog) ByID(assetID string) (domain.RouterAsset, bool) {
	a, ok := c.byID[assetID]
	return a, ok
}

// Len reports how many assets the catalog holds.
func (c *Catalog) Len() int {
	return len(c.assets)
}

func builtinAssets(base string) []domain.RouterAsset {
	generic := func(id, nodeID, file, alt string, landmarks ...string) domain.RouterAsset {
		return domain.RouterAsset{
			AssetID:   id,
			Vendor:    domain.GenericVendorID,
			Firmware:  "generic",
			NodeID:    nodeID,
			Type:      domain.AssetDiagram,
			URL:       base + "/" + file,
			AltText:   alt,
			Landmarks: landmarks,
		}
	}
	tplink := func(id, nodeID, file, alt string, kind domain.AssetType, landmarks ...string) domain.RouterAsset {
		return domain.RouterAsset{
			AssetID:   id,
			Vendor:    "tplink",
			Firmware:  "v2",
			NodeID:    nodeID,
			Type:      kind,
			URL:       base + "/" + file,
			AltText:   alt,
			Landmarks: landmarks,
		}
	}

	return []domain.RouterAsset{
		// Intro
		generic("intro_diagram", "entry_start", "intro-diagram.svg",
			"Router diagnosis flow overview showing the step-by-step process",
			"power_check", "led_check", "login", "wan_status"),
		generic("router_brands_guide", "entry_router_identify", "router-brands.svg",
			"Common router brands: TP-Link, NETGEAR, D-Link, ASUS logos",
			"tplink_logo", "netgear_logo", "dlink_logo", "asus_logo"),

		// LED guides
		generic("led_power_guide", "physical_power_led", "led-power-guide.svg",
			"Power LED status guide: green=on, orange=issue, blinking=booting, off=no power",
			"power_led", "status_green", "status_orange", "status_off"),
		tplink("tplink_led_diagram", "physical_power_led", "tplink-led-layout.svg",
			"TP-Link router LED layout showing Power, Internet, WiFi, and LAN lights",
			domain.AssetDiagram, "power", "internet", "wifi", "2.4G", "5G", "lan_ports"),
		generic("led_internet_guide", "physical_internet_led", "led-internet-guide.svg",
			"Internet LED status guide: green=connected, orange/red=issue, blinking=connecting",
			"internet_led", "status_green", "status_orange", "status_blinking"),

		// Cables and power
		generic("power_cable_guide", "physical_power_off", "power-cable-guide.svg",
			"Router power cable connection diagram showing power adapter and outlet",
			"power_port", "adapter", "outlet"),
		generic("power_cycle_guide", "physical_power_issue", "power-cycle-guide.svg",
			"Power cycle instructions: unplug, wait 10 seconds, plug back in",
			"step1_unplug", "step2_wait", "step3_plugin"),
		generic("wan_port_guide", "physical_wan_cable_check", "wan-port-guide.svg",
			"WAN port location on router back panel - usually blue or yellow colored port",
			"wan_port", "lan_ports", "ethernet_cable"),
		generic("cable_check_diagram", "physical_wan_cable_check", "cable-check.svg",
			"Check ethernet cable is clicked in securely at both ends",
			"cable_end_1", "cable_end_2", "click_indicator"),
		generic("ont_connection_diagram", "physical_wan_connect", "ont-connection.svg",
			"Connection from fiber ONT box to router WAN port",
			"ont_box", "ethernet_cable", "router_wan_port"),
		generic("cable_reseat_guide", "physical_wan_reseat", "cable-reseat.svg",
			"Steps to reseat ethernet cable: unplug, inspect, plug back firmly",
			"unplug", "inspect", "replug"),

		// Local network
		generic("connection_types_guide", "local_network_check", "connection-types.svg",
			"WiFi vs Ethernet connection types illustration",
			"wifi_icon", "ethernet_cable", "device"),
		generic("wifi_icon_guide", "local_wifi_connected", "wifi-icons.svg",
			"WiFi icon states: connected (full bars), disconnected (x mark), no network",
			"connected", "disconnected", "no_network"),
		generic("wifi_connect_guide", "local_wifi_reconnect", "wifi-connect.svg",
			"Steps to connect to WiFi: Settings > WiFi > Select Network > Enter Password",
			"settings", "wifi_list", "password_prompt"),
		generic("ethernet_connection_guide", "local_ethernet_check", "ethernet-connection.svg",
			"Ethernet cable connected from computer to router LAN port",
			"computer_port", "router_lan_port", "cable"),

		// Router UI
		generic("browser_address_guide", "local_browser_test", "browser-address.svg",
			"Type 192.168.0.1 in browser address bar",
			"address_bar", "ip_address"),
		tplink("router_login_tplink", "local_browser_test", "tplink-login.png",
			"TP-Link router login page with username and password fields",
			domain.AssetScreenshot, "username_field", "password_field", "login_button"),
		generic("default_credentials_guide", "router_login_prompt", "default-credentials.svg",
			"Default router credentials: admin/admin or admin/password",
			"username", "password", "sticker_location"),
		generic("router_sticker_guide", "router_login_failed", "router-sticker.svg",
			"Look for credentials sticker on bottom or back of router",
			"sticker_bottom", "sticker_back", "credentials_area"),
		tplink("tplink_dashboard", "router_dashboard_confirm", "tplink-dashboard.png",
			"TP-Link router main dashboard showing network map and status",
			domain.AssetScreenshot, "network_map", "internet_status", "connected_devices", "menu"),
		generic("dashboard_overview_guide", "router_dashboard_confirm", "dashboard-overview.svg",
			"Router dashboard layout with sidebar menu and status panels",
			"sidebar", "status_panel", "quick_actions"),
		tplink("tplink_navigation_guide", "router_navigate_status", "tplink-nav.png",
			"TP-Link navigation menu highlighting Network Status option",
			domain.AssetScreenshot, "network_menu", "status_option", "internet_option"),

		// WAN status
		tplink("wan_status_connected", "wan_status_check", "tplink-wan-connected.png",
			"TP-Link WAN status showing Connected with IP address",
			domain.AssetScreenshot, "status_connected", "ip_address", "gateway", "dns"),
		tplink("wan_status_disconnected", "wan_status_check", "tplink-wan-disconnected.png",
			"TP-Link WAN status showing Disconnected",
			domain.AssetScreenshot, "status_disconnected", "connect_button"),
		tplink("wan_status_connecting", "wan_status_wait", "tplink-wan-connecting.png",
			"TP-Link WAN status showing Connecting with progress indicator",
			domain.AssetScreenshot, "status_connecting", "progress"),
		generic("wan_ip_guide", "wan_ip_check", "wan-ip-guide.svg",
			"WAN IP address display - valid IP vs 0.0.0.0",
			"valid_ip", "invalid_ip"),

		// Actions
		generic("wan_reconnect_guide", "action_reconnect_wan", "wan-reconnect.svg",
			"Click Connect or Apply button to reconnect WAN",
			"connect_button", "apply_button"),
		generic("reboot_guide", "action_reboot_router", "reboot-guide.svg",
			"Navigate to System Tools > Reboot",
			"system_tools", "reboot_option", "confirm_button"),
		tplink("tplink_system_tools", "action_reboot_router", "tplink-system-reboot.png",
			"TP-Link System Tools page with Reboot option",
			domain.AssetScreenshot, "system_tools_menu", "reboot_button"),

		// Verification
		generic("internet_test_guide", "verification_internet_test", "internet-test.svg",
			"Open browser and visit google.com to test connection",
			"browser", "google_page"),
		generic("success_diagram", "verification_complete", "success.svg",
			"Connection successful! Green checkmark with connected diagram",
			"checkmark", "connected_path"),

		// Escalation
		generic("escalation_hardware_guide", "escalation_hardware", "escalation-hardware.svg",
			"Hardware issue - contact manufacturer or ISP",
			"router", "warning", "support_contact"),
		generic("escalation_isp_guide", "escalation_wan_issue", "escalation-isp.svg",
			"ISP issue - contact internet service provider",
			"isp_logo", "phone", "support"),
		generic("escalation_wifi_guide", "escalation_wifi_issue", "escalation-wifi.svg",
			"WiFi troubleshooting - try different device or wired connection",
			"wifi_icon", "alternate_device", "ethernet_option"),
		generic("escalation_access_guide", "escalation_access_issue", "escalation-access.svg",
			"Cannot access router - check network settings or contact support",
			"network_settings", "support_contact"),
		generic("factory_reset_guide", "escalation_login_issue", "factory-reset.svg",
			"Factory reset button location and instructions",
			"reset_button", "paperclip", "hold_duration"),
		generic("dns_settings_guide", "escalation_dns_issue", "dns-settings.svg",
			"Change DNS to 8.8.8.8 (Google) or 1.1.1.1 (Cloudflare)",
			"dns_field", "google_dns", "cloudflare_dns"),
	}
}
