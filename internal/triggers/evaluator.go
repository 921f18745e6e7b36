package triggers

import (
	"sync"

	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/conditions"
)

// Evaluator is the trigger registry and dispatch point. Mutations take the
// write lock; evaluation and listing run concurrently under the read lock.
type Evaluator struct {
	mu      sync.RWMutex
	byID    map[string]Trigger
	ordered []string // registration order
	logger  logging.Logger
}

// NewEvaluator creates an empty registry.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		byID:   make(map[string]Trigger),
		logger: logging.GetGlobalLogger().WithFields(logging.String("component", "evaluator")),
	}
}

// Register adds a trigger. Registering an identity that is already present
// is rejected with ErrTriggerAlreadyRegistered.
func (e *Evaluator) Register(t Trigger) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := t.ID()
	if _, exists := e.byID[id]; exists {
		return duplicateError(id)
	}

	e.byID[id] = t
	e.ordered = append(e.ordered, id)

	e.logger.Info("trigger registered",
		logging.String("trigger_id", id),
		logging.String("name", t.Name()),
		logging.Bool("active", t.IsActive()),
	)
	return nil
}

// Unregister removes a trigger by identity. Removing an absent identity is
// a no-op.
func (e *Evaluator) Unregister(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.byID[id]; !exists {
		return nil
	}

	delete(e.byID, id)
	for i, registered := range e.ordered {
		if registered == id {
			e.ordered = append(e.ordered[:i], e.ordered[i+1:]...)
			break
		}
	}

	e.logger.Info("trigger unregistered", logging.String("trigger_id", id))
	return nil
}

// Get returns a trigger by identity.
func (e *Evaluator) Get(id string) (Trigger, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, exists := e.byID[id]
	if !exists {
		return nil, notFoundError(id)
	}
	return t, nil
}

// List returns all registered triggers in registration order.
func (e *Evaluator) List() []Trigger {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Trigger, 0, len(e.ordered))
	for _, id := range e.ordered {
		out = append(out, e.byID[id])
	}
	return out
}

// Active returns the registered triggers whose active flag is set, in
// registration order.
func (e *Evaluator) Active() []Trigger {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Trigger
	for _, id := range e.ordered {
		if t := e.byID[id]; t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// Evaluate runs a single trigger against the context.
func (e *Evaluator) Evaluate(t Trigger, ctx conditions.Context) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return t.Evaluate(ctx)
}

// EvaluateAll runs every active trigger against the context and returns the
// ones that should fire. Evaluation errors deactivate nothing; the failing
// trigger is skipped and the first error is returned alongside the matches.
func (e *Evaluator) EvaluateAll(ctx conditions.Context) ([]Trigger, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var fired []Trigger
	var firstErr error
	for _, id := range e.ordered {
		t := e.byID[id]
		if !t.IsActive() {
			continue
		}
		matched, err := t.Evaluate(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if matched {
			fired = append(fired, t)
		}
	}
	return fired, firstErr
}

// Len returns the number of registered triggers.
func (e *Evaluator) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.byID)
}
