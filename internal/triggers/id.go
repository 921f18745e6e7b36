package triggers

import (
	"github.com/google/uuid"

	"trigger-engine/internal/common/errors"
)

// TriggerID is the opaque unique identity of a trigger. The nil UUID is
// never a valid identity.
type TriggerID struct {
	value uuid.UUID
}

// NewTriggerID generates a random identity.
func NewTriggerID() TriggerID {
	return TriggerID{value: uuid.New()}
}

// NewTriggerIDFromSeed derives a deterministic identity from a seed string,
// for idempotent re-creation of the same trigger.
func NewTriggerIDFromSeed(seed string) (TriggerID, error) {
	if seed == "" {
		return TriggerID{}, errors.EmptyValue("trigger_id_seed")
	}
	return TriggerID{value: uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))}, nil
}

// ParseTriggerID parses a canonical UUID string, rejecting the nil UUID.
func ParseTriggerID(s string) (TriggerID, error) {
	if s == "" {
		return TriggerID{}, errors.EmptyValue("trigger_id")
	}

	value, err := uuid.Parse(s)
	if err != nil {
		return TriggerID{}, errors.InvalidValue("trigger_id", s, "not a valid UUID")
	}
	if value == uuid.Nil {
		return TriggerID{}, errors.InvalidValue("trigger_id", s, "nil UUID is not a valid identity")
	}

	return TriggerID{value: value}, nil
}

// IsNil reports whether the identity is the zero sentinel.
func (id TriggerID) IsNil() bool {
	return id.value == uuid.Nil
}

// Equal reports value equality.
func (id TriggerID) Equal(other TriggerID) bool {
	return id.value == other.value
}

// String returns the canonical UUID form.
func (id TriggerID) String() string {
	return id.value.String()
}
