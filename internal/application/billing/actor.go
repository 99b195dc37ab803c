package billing

import "github.com/google/uuid"

// ActorContext identifies the already-authenticated operator performing an
// administrative mutation. Authorization happens before the call reaches the
// billing core; the actor is carried only for audit attribution.
type ActorContext struct {
	ActorID   *uuid.UUID
	ActorName string
}

// SystemActor is used for mutations initiated by the platform itself, such
// as provisioning repair runs.
var SystemActor = ActorContext{ActorName: "system"}

// ID returns the actor's user ID, or nil for system-initiated actions
func (a ActorContext) ID() *uuid.UUID {
	return a.ActorID
}
