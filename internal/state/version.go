package state

// Version constants for the snapshot schema and engine.
const (
	// SchemaVersion is the canonical snapshot schema version. It is
	// embedded in the hash domain prefixes, so bumping it changes every
	// content address.
	SchemaVersion = "1"

	// EngineVersion is the structwalk engine version.
	EngineVersion = "0.1.0"
)
