package graph

import "github.com/akilivoice/pathrag/pkg/domain"

// Default returns the built-in router troubleshooting script. The node set
// is data, not behavior: every step names what to say, which answers it
// listens for, where each answer leads, and which hand-off triggers are
// live. Validate always passes for this graph; the test suite pins that.
func Default() *Graph {
	g, err := New(defaultNodes())
	if err != nil {
		// Unreachable for the built-in set: ids are unique by inspection.
		panic(err)
	}
	return g
}

func defaultNodes() []domain.DiagnosticNode {
	uncertain := domain.EscalationConditions{UserUncertain: true, RetryExceeded: true, MaxRetries: 3}
	uncertainMismatch := domain.EscalationConditions{UserUncertain: true, ScreenMismatch: true, RetryExceeded: true, MaxRetries: 3}

	return []domain.DiagnosticNode{
		// -------- Entry & setup --------
		{
			ID:               "entry_start",
			Phase:            domain.PhaseEntry,
			InputType:        domain.InputConfirmation,
			Question:         "Ready to start?",
			VoiceInstruction: "Hi! I'm Akili, and I'll help you fix your internet connection. We'll go step by step together. Are you ready to start?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "entry_router_identify"},
				{Answer: "no", Next: "entry_postpone"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "entry_postpone",
			Phase:            domain.PhaseEntry,
			InputType:        domain.InputConfirmation,
			Question:         "Come back later, or start now?",
			VoiceInstruction: "That's okay, we can do this whenever suits you. Would you like to go ahead now after all, or shall I let you go?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "entry_router_identify"},
				{Answer: "no", Next: "session_end"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "entry_router_identify",
			Phase:            domain.PhaseEntry,
			InputType:        domain.InputObservation,
			Question:         "What brand is your router?",
			VoiceInstruction: "First, let's identify your router. Look for a brand name printed on it, like TP-Link, NETGEAR, D-Link, or ASUS. What brand do you see?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "tplink", Next: "physical_power_led"},
				{Answer: "netgear", Next: "physical_power_led"},
				{Answer: "dlink", Next: "physical_power_led"},
				{Answer: "asus", Next: "physical_power_led"},
				{Answer: "other", Next: "physical_power_led"},
			},
			Escalation: uncertain,
		},

		// -------- Physical layer --------
		{
			ID:               "physical_power_led",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputObservation,
			Question:         "What is the power light doing?",
			VoiceInstruction: "Look at the front of your router and find the power light. Is it on, blinking, or off?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "on", Next: "physical_internet_led"},
				{Answer: "green", Next: "physical_internet_led"},
				{Answer: "blinking", Next: "physical_power_issue"},
				{Answer: "off", Next: "physical_power_off"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "physical_power_off",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputAction,
			Question:         "Is the power cable plugged in?",
			VoiceInstruction: "The router has no power. Check that the power cable is plugged firmly into the router and into the wall outlet. After checking, tell me: is the power light on now, or still off?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "on", Next: "physical_internet_led"},
				{Answer: "off", Next: "physical_power_issue"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReseatCable},
			Escalation:     uncertain,
		},
		{
			ID:               "physical_power_issue",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputAction,
			Question:         "Did a power cycle bring the light back?",
			VoiceInstruction: "Let's power cycle the router. Unplug the power cable, wait ten seconds, and plug it back in. Give it a minute to start up. Is the power light on now, or still off?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "on", Next: "physical_internet_led"},
				{Answer: "off", Next: "escalation_hardware"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionPowerCycle},
			Escalation:     uncertain,
		},
		{
			ID:               "physical_internet_led",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputObservation,
			Question:         "What color is the internet light?",
			VoiceInstruction: "Now find the internet light. It usually looks like a globe or says WAN. What is it doing: green, red, orange, blinking, or off?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				// Colors first: "solid" and "white" are variants of "on",
				// so "solid red" must hit "red" before "on" can claim it.
				{Answer: "green", Next: "local_network_check"},
				{Answer: "red", Next: "physical_wan_cable_check"},
				{Answer: "orange", Next: "physical_wan_cable_check"},
				{Answer: "blinking", Next: "physical_wan_cable_check"},
				{Answer: "off", Next: "physical_wan_cable_check"},
				{Answer: "on", Next: "local_network_check"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "physical_wan_cable_check",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputAction,
			Question:         "Is the WAN cable connected?",
			VoiceInstruction: "Look at the back of the router for the WAN port. It's usually blue or yellow and sits apart from the others. Is there a cable plugged into it?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "physical_wan_reseat"},
				{Answer: "no", Next: "physical_wan_connect"},
			},
			Escalation: uncertainMismatch,
		},
		{
			ID:               "physical_wan_connect",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputAction,
			Question:         "Connect the modem cable to the WAN port.",
			VoiceInstruction: "Take the cable coming from your modem or fiber box and plug it into the WAN port until it clicks. Say done when you've connected it.",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "done", Next: "action_reboot_router"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReseatCable},
			Escalation:     uncertain,
		},
		{
			ID:               "physical_wan_reseat",
			Phase:            domain.PhasePhysicalLayer,
			InputType:        domain.InputAction,
			Question:         "Reseat the WAN cable.",
			VoiceInstruction: "Let's reseat that cable. Unplug it from the WAN port, wait a moment, and push it back in until you hear a click. Do the same at the other end. Say done when you're finished.",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "done", Next: "action_reboot_router"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReseatCable},
			Escalation:     uncertain,
		},

		// -------- Local network --------
		{
			ID:               "local_network_check",
			Phase:            domain.PhaseLocalNetwork,
			InputType:        domain.InputObservation,
			Question:         "WiFi or ethernet?",
			VoiceInstruction: "The router looks healthy, so let's check your device. Is it connected over WiFi, or with an ethernet cable?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "wifi", Next: "local_wifi_connected"},
				{Answer: "ethernet", Next: "local_ethernet_check"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "local_wifi_connected",
			Phase:            domain.PhaseLocalNetwork,
			InputType:        domain.InputObservation,
			Question:         "Is the device on the WiFi network?",
			VoiceInstruction: "Check your device's WiFi settings. Does it show connected to your home network?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "local_browser_test"},
				{Answer: "no", Next: "local_wifi_reconnect"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "local_wifi_reconnect",
			Phase:            domain.PhaseLocalNetwork,
			InputType:        domain.InputAction,
			Question:         "Reconnect to the WiFi network.",
			VoiceInstruction: "Select your home network in the WiFi list and connect. Use the password printed on the router's sticker if it asks. Did it connect, or did it fail?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "connected", Next: "local_browser_test"},
				{Answer: "failed", Next: "escalation_wifi_issue"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReconnectSession},
			Escalation:     uncertain,
		},
		{
			ID:               "local_ethernet_check",
			Phase:            domain.PhaseLocalNetwork,
			InputType:        domain.InputAction,
			Question:         "Check the ethernet cable.",
			VoiceInstruction: "Make sure the ethernet cable is clicked in at both ends: your computer and one of the router's LAN ports. Say done when you've checked both.",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "done", Next: "local_browser_test"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReseatCable},
			Escalation:     uncertain,
		},
		{
			ID:               "local_browser_test",
			Phase:            domain.PhaseLocalNetwork,
			InputType:        domain.InputAction,
			Question:         "Does a website load?",
			VoiceInstruction: "Open a browser and try loading any website, for example example.com. Did the page load, did it fail, or do only some sites work?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "loaded", Next: "verification_complete"},
				{Answer: "failed", Next: "router_login_prompt"},
				{Answer: "some", Next: "escalation_dns_issue"},
			},
			Escalation: uncertain,
		},

		// -------- Router login --------
		{
			ID:               "router_login_prompt",
			Phase:            domain.PhaseRouterLogin,
			InputType:        domain.InputAction,
			Question:         "Open the router login page.",
			VoiceInstruction: "Let's look inside the router. In your browser's address bar, type one nine two dot one six eight dot zero dot one and press enter. Do you see a login page?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "router_dashboard_confirm"},
				{Answer: "no", Next: "router_login_failed"},
			},
			Escalation: uncertainMismatch,
		},
		{
			ID:               "router_login_failed",
			Phase:            domain.PhaseRouterLogin,
			InputType:        domain.InputAction,
			Question:         "Try the alternate gateway address.",
			VoiceInstruction: "No problem, some routers use a different address. Try one nine two dot one six eight dot one dot one instead. Do you see a login page now?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "router_dashboard_confirm"},
				{Answer: "no", Next: "escalation_access_issue"},
			},
			Escalation: uncertainMismatch,
		},
		{
			ID:               "router_dashboard_confirm",
			Phase:            domain.PhaseRouterLogin,
			InputType:        domain.InputConfirmation,
			Question:         "Are you on the router dashboard?",
			VoiceInstruction: "Log in with the username and password from the sticker on the router. The default is often admin and admin. Once you're in, you should see a dashboard or status overview. Are you in?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "router_navigate_status"},
				{Answer: "no", Next: "escalation_login_issue"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionResetCredentials},
			Escalation:     uncertainMismatch,
		},
		{
			ID:               "router_navigate_status",
			Phase:            domain.PhaseRouterLogin,
			InputType:        domain.InputAction,
			Question:         "Open the internet status page.",
			VoiceInstruction: "Find a menu item called Status, Internet, or WAN and open it. Say done when you can see the internet status page.",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "done", Next: "wan_status_check"},
			},
			Escalation: uncertainMismatch,
		},

		// -------- WAN inspection --------
		{
			ID:               "wan_status_check",
			Phase:            domain.PhaseWANInspection,
			InputType:        domain.InputObservation,
			Question:         "What does the internet status say?",
			VoiceInstruction: "On that page, what does the internet status say: connected, disconnected, or connecting?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "connected", Next: "wan_ip_check"},
				{Answer: "disconnected", Next: "action_reconnect_wan"},
				{Answer: "connecting", Next: "wan_status_wait"},
			},
			Escalation: uncertainMismatch,
		},
		{
			ID:               "wan_status_wait",
			Phase:            domain.PhaseWANInspection,
			InputType:        domain.InputSystemCheck,
			Question:         "Wait for the connection to settle.",
			VoiceInstruction: "It's still negotiating. Let's give it thirty seconds, then refresh the page. What does it say now: connected or disconnected?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "connected", Next: "wan_ip_check"},
				{Answer: "disconnected", Next: "action_reconnect_wan"},
			},
			Escalation: uncertainMismatch,
		},
		{
			ID:               "wan_ip_check",
			Phase:            domain.PhaseWANInspection,
			InputType:        domain.InputObservation,
			Question:         "Does the router have a WAN IP address?",
			VoiceInstruction: "Look for the IP address on that page. Does it show a real address, or is it all zeros?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "yes", Next: "verification_internet_test"},
				{Answer: "zeros", Next: "action_reconnect_wan"},
			},
			Escalation: uncertainMismatch,
		},

		// -------- Corrective actions --------
		{
			ID:               "action_reconnect_wan",
			Phase:            domain.PhaseCorrectiveActions,
			InputType:        domain.InputAction,
			Question:         "Reconnect the WAN session.",
			VoiceInstruction: "On the internet status page, look for a Disconnect and Connect button. Click disconnect, wait a few seconds, then click connect. Did the status change to connected, or did it fail?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "connected", Next: "verification_internet_test"},
				{Answer: "failed", Next: "action_reboot_router"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionReconnectSession, domain.ActionSaveApply},
			Escalation:     uncertainMismatch,
		},
		{
			ID:               "action_reboot_router",
			Phase:            domain.PhaseCorrectiveActions,
			InputType:        domain.InputAction,
			Question:         "Reboot the router.",
			VoiceInstruction: "Let's restart the router. Unplug its power, wait ten seconds, plug it back in, and wait until the lights settle down. That takes a minute or two. Say done when the lights are stable, or failed if it won't start.",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "done", Next: "verification_internet_test"},
				{Answer: "failed", Next: "escalation_hardware"},
			},
			ActionsAllowed: []domain.AllowedAction{domain.ActionSoftReboot, domain.ActionPowerCycle},
			Escalation:     uncertain,
		},

		// -------- Verification --------
		{
			ID:               "verification_internet_test",
			Phase:            domain.PhaseVerification,
			InputType:        domain.InputAction,
			Question:         "Is the internet working now?",
			VoiceInstruction: "Moment of truth. Open your browser and reload a website. Is it working now, or did it fail again?",
			ExpectedAnswers: []domain.ExpectedAnswer{
				{Answer: "working", Next: "verification_complete"},
				{Answer: "failed", Next: "escalation_wan_issue"},
			},
			Escalation: uncertain,
		},
		{
			ID:               "verification_complete",
			Phase:            domain.PhaseVerification,
			InputType:        domain.InputConfirmation,
			Question:         "Diagnosis complete.",
			VoiceInstruction: "Excellent! Your internet is back. If it drops again, run this check once more before calling support. Have a great day!",
			Escalation:       domain.EscalationConditions{},
		},

		// -------- Escalation hand-offs --------
		{
			ID:               "escalation_hardware",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "Hardware fault, hand off to support.",
			VoiceInstruction: "It looks like the router itself has a hardware problem. I'm handing you to a support agent with everything we found. They may arrange a replacement.",
			Escalation:       domain.EscalationConditions{},
		},
		{
			ID:               "escalation_wan_issue",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "WAN/ISP fault, hand off to support.",
			VoiceInstruction: "The problem looks like it's on your provider's side of the line. I'm passing everything we checked to a support agent who can look at the connection from their end.",
			Escalation:       domain.EscalationConditions{},
		},
		{
			ID:               "escalation_wifi_issue",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "WiFi fault, hand off to support.",
			VoiceInstruction: "The WiFi connection won't come up even though the router looks fine. A support agent will take it from here with the details we gathered.",
			Escalation:       domain.EscalationConditions{},
		},
		{
			ID:               "escalation_access_issue",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "Router unreachable, hand off to support.",
			VoiceInstruction: "We can't reach the router's admin page from your device. I'll hand you to a support agent along with what we've tried so far.",
			Escalation:       domain.EscalationConditions{},
		},
		{
			ID:               "escalation_login_issue",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "Login failed, hand off to support.",
			VoiceInstruction: "The router isn't accepting the login. A support agent can verify the credentials or walk you through a reset safely.",
			Escalation:       domain.EscalationConditions{},
		},
		{
			ID:               "escalation_dns_issue",
			Phase:            domain.PhaseEscalation,
			InputType:        domain.InputConfirmation,
			Question:         "DNS fault, hand off to support.",
			VoiceInstruction: "Some sites loading and others failing usually points to a DNS problem. I'm handing you to a support agent who can adjust the DNS settings with you.",
			Escalation:       domain.EscalationConditions{},
		},

		// -------- Post-session --------
		{
			ID:               "session_end",
			Phase:            domain.PhasePostSession,
			InputType:        domain.InputConfirmation,
			Question:         "Session ended.",
			VoiceInstruction: "No problem. Come back whenever you're ready and we'll pick it up from the start. Goodbye!",
			Escalation:       domain.EscalationConditions{},
		},
	}
}
