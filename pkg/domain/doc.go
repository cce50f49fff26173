/*
Package domain holds the core data model for the PathRAG diagnostic engine.

It is dependency-free by design: nodes, sessions, vendor profiles and
escalation payloads are plain values that the engine, the adapters and the
voice control loop all share. Behavior lives in internal/engine and
internal/voice; this package only defines the shapes and their invariants.
*/
package domain
