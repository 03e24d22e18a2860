package models

import "time"

// AuditEvent is a mongo document recording one workflow transition. Written
// best-effort after the transaction commits; never read back by the
// workflows themselves.
type AuditEvent struct {
	EntityKind string    `bson:"entity_kind" json:"entity_kind"` // "job" | "payment" | "application"
	EntityID   string    `bson:"entity_id" json:"entity_id"`
	Action     string    `bson:"action" json:"action"`
	ActorID    string    `bson:"actor_id" json:"actor_id"`
	FromStatus string    `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus   string    `bson:"to_status,omitempty" json:"to_status,omitempty"`
	Note       string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
