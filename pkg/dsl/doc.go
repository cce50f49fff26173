/*
Package dsl provides a fluent Go API for constructing diagnostic graphs
programmatically, as an alternative to the built-in script or YAML files.

Nodes are declared in order with Add, configured through the chained
NodeBuilder methods, and compiled with Build, which runs the same
structural validation as the YAML loader:

	g, err := dsl.New().
		Add("entry_start").
		Confirmation("Ready to begin?").
		Voice("Are you ready to begin troubleshooting your router?").
		Expect("yes", "check_led").
		Expect("no", "session_end").
		Add("check_led").
		Observation("What color is the power LED?").
		Voice("Look at the power LED and tell me its color.").
		Expect("green", "session_end").
		Add("session_end").
		Confirmation("Done.").
		Build()

Build returns a *graph.Graph ready to hand to pathrag.WithGraph.
*/
package dsl
