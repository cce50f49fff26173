/*
Package ports defines the driven ports (interfaces) for the PathRAG engine.

These interfaces decouple the core traversal logic from external
collaborators: session persistence, asset lookup, the audio/speech
collaborator, and distributed locking for multi-replica deployments.

# Key Interfaces

  - SessionStore: persists and loads DiagnosticSession values by id.
  - DistributedLocker: per-session-id locking across replicas.
  - AssetCatalog: resolves node ids to visual guide descriptors.
  - Speaker: the audio collaborator the voice control loop talks to.
*/
package ports
