package triggers

import (
	"fmt"
	"time"

	"trigger-engine/internal/common/errors"
	"trigger-engine/internal/conditions"
)

// TriggerConfig limits.
const (
	MaxMetadataEntries    = 50
	MaxMetadataKeyLength  = 100
	MaxMetadataValLength  = 1000
	MaxTimeoutSeconds     = 3600
	DefaultTimeoutSeconds = 30
)

// TriggerConfig aggregates a trigger's name, condition definition and
// operational limits. Build with NewTriggerConfig plus With* methods, then
// Validate before use.
type TriggerConfig struct {
	Name           TriggerName
	Condition      *conditions.Condition
	Description    string
	Metadata       map[string]string
	Enabled        bool
	MaxExecutions  uint64 // 0 means unlimited
	TimeoutSeconds uint64
	CreatedAt      time.Time
}

// NewTriggerConfig creates a config with defaults: enabled, 30 second
// timeout, unlimited executions.
func NewTriggerConfig(name TriggerName, condition *conditions.Condition) TriggerConfig {
	return TriggerConfig{
		Name:           name,
		Condition:      condition,
		Metadata:       make(map[string]string),
		Enabled:        true,
		TimeoutSeconds: DefaultTimeoutSeconds,
		CreatedAt:      time.Now(),
	}
}

// WithDescription sets the free-text description.
func (c TriggerConfig) WithDescription(description string) TriggerConfig {
	c.Description = description
	return c
}

// WithMetadata adds a metadata entry.
func (c TriggerConfig) WithMetadata(key, value string) TriggerConfig {
	meta := make(map[string]string, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[key] = value
	c.Metadata = meta
	return c
}

// WithEnabled sets the enabled flag.
func (c TriggerConfig) WithEnabled(enabled bool) TriggerConfig {
	c.Enabled = enabled
	return c
}

// WithMaxExecutions caps the total number of executions. Must be positive.
func (c TriggerConfig) WithMaxExecutions(max uint64) TriggerConfig {
	c.MaxExecutions = max
	return c
}

// WithTimeout sets the per-execution timeout in seconds.
func (c TriggerConfig) WithTimeout(seconds uint64) TriggerConfig {
	c.TimeoutSeconds = seconds
	return c
}

// Validate re-checks every constraint, including nested condition validity.
func (c TriggerConfig) Validate() error {
	if c.Name.value == "" {
		return errors.EmptyValue("trigger_name")
	}

	if c.Condition == nil {
		return errors.InvalidValue("condition", "", "config requires a condition")
	}
	if err := c.Condition.Validate(); err != nil {
		return err
	}

	if c.TimeoutSeconds == 0 || c.TimeoutSeconds > MaxTimeoutSeconds {
		return errors.InvalidValue("timeout_seconds", fmt.Sprintf("%d", c.TimeoutSeconds),
			fmt.Sprintf("timeout must be in (0, %d] seconds", MaxTimeoutSeconds))
	}

	if len(c.Metadata) > MaxMetadataEntries {
		return errors.TooLong("metadata", len(c.Metadata), MaxMetadataEntries)
	}
	for k, v := range c.Metadata {
		if k == "" {
			return errors.EmptyValue("metadata_key")
		}
		if len(k) > MaxMetadataKeyLength {
			return errors.TooLong("metadata_key", len(k), MaxMetadataKeyLength)
		}
		if len(v) > MaxMetadataValLength {
			return errors.TooLong("metadata_value", len(v), MaxMetadataValLength)
		}
	}

	if c.CreatedAt.IsZero() {
		return errors.InvalidTimestamp("created_at must be set")
	}
	if c.CreatedAt.After(time.Now().Add(time.Minute)) {
		return errors.InvalidTimestamp("created_at is in the future")
	}

	return nil
}
