// Package handlers implements the admin HTTP API: trigger registration and
// lookup, plus event submission for evaluation.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"trigger-engine/internal/common/errors"
	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/conditions"
	"trigger-engine/internal/definitions"
	"trigger-engine/internal/schedule"
	"trigger-engine/internal/triggers"
)

// Handlers carries the dependencies of the admin API.
type Handlers struct {
	evaluator *triggers.Evaluator
	compile   []conditions.CompileOption
	scheduler *schedule.Scheduler
	lifecycle *triggers.Lifecycle
	logger    logging.Logger
}

// New creates the handler set. The compile options are applied to condition
// definitions submitted over the API; scheduler and lifecycle may be nil.
func New(evaluator *triggers.Evaluator, scheduler *schedule.Scheduler, lifecycle *triggers.Lifecycle, compile ...conditions.CompileOption) *Handlers {
	return &Handlers{
		evaluator: evaluator,
		compile:   compile,
		scheduler: scheduler,
		lifecycle: lifecycle,
		logger:    logging.GetGlobalLogger().WithFields(logging.String("component", "api")),
	}
}

// Router builds the route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/triggers", h.ListTriggers).Methods("GET")
	r.HandleFunc("/triggers", h.CreateTrigger).Methods("POST")
	r.HandleFunc("/triggers/active", h.ListActiveTriggers).Methods("GET")
	r.HandleFunc("/triggers/{id}", h.GetTrigger).Methods("GET")
	r.HandleFunc("/triggers/{id}", h.DeleteTrigger).Methods("DELETE")
	r.HandleFunc("/triggers/{id}/resume", h.ResumeTrigger).Methods("POST")
	r.HandleFunc("/events", h.SubmitEvent).Methods("POST")
	return r
}

// TriggerView is the JSON form of a registered trigger.
type TriggerView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Active     bool     `json:"active"`
	State      string   `json:"state,omitempty"`
	Failures   uint64   `json:"failures,omitempty"`
	Conditions []string `json:"conditions"`
}

func (h *Handlers) viewOf(t triggers.Trigger) TriggerView {
	conds := t.Conditions()
	descriptions := make([]string, len(conds))
	for i, c := range conds {
		descriptions[i] = c.Description()
	}
	view := TriggerView{
		ID:         t.ID(),
		Name:       t.Name(),
		Active:     t.IsActive(),
		Conditions: descriptions,
	}
	if h.lifecycle != nil {
		if s, ok := h.lifecycle.StateOf(t.ID()); ok {
			view.State = s.Current().String()
			view.Failures = s.FailureCount()
		}
	}
	return view
}

// HealthCheck reports liveness and the registry size.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"triggers": h.evaluator.Len(),
	})
}

// ListTriggers returns every registered trigger in registration order.
func (h *Handlers) ListTriggers(w http.ResponseWriter, r *http.Request) {
	listed := h.evaluator.List()
	views := make([]TriggerView, len(listed))
	for i, t := range listed {
		views[i] = h.viewOf(t)
	}
	writeJSON(w, http.StatusOK, views)
}

// ListActiveTriggers returns the triggers whose active flag is set.
func (h *Handlers) ListActiveTriggers(w http.ResponseWriter, r *http.Request) {
	active := h.evaluator.Active()
	views := make([]TriggerView, len(active))
	for i, t := range active {
		views[i] = h.viewOf(t)
	}
	writeJSON(w, http.StatusOK, views)
}

// GetTrigger returns a single trigger by identity.
func (h *Handlers) GetTrigger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	t, err := h.evaluator.Get(id)
	if err != nil {
		http.Error(w, "Trigger not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.viewOf(t))
}

// CreateTrigger registers a trigger from a JSON definition. Duplicate
// identities are rejected with 409.
func (h *Handlers) CreateTrigger(w http.ResponseWriter, r *http.Request) {
	var def definitions.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	config, err := def.BuildConfig()
	if err != nil {
		h.logger.Warn("trigger definition rejected", logging.Err(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := def.ID()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := append([]conditions.CompileOption{conditions.WithPriority(def.Priority)}, h.compile...)
	t, err := triggers.FromConfig(id, config, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.evaluator.Register(t); err != nil {
		if stderrors.Is(err, triggers.ErrTriggerAlreadyRegistered) {
			http.Error(w, "Trigger already registered", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to register trigger", http.StatusInternalServerError)
		return
	}
	if h.lifecycle != nil {
		h.lifecycle.Track(t)
	}

	writeJSON(w, http.StatusCreated, h.viewOf(t))
}

// DeleteTrigger unregisters a trigger. Deleting an absent identity returns
// 204 like a successful delete.
func (h *Handlers) DeleteTrigger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.evaluator.Unregister(id); err != nil {
		http.Error(w, "Failed to unregister trigger", http.StatusInternalServerError)
		return
	}
	if h.scheduler != nil {
		h.scheduler.Forget(id)
	}
	if h.lifecycle != nil {
		h.lifecycle.Forget(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResumeTrigger reactivates a suspended trigger. Failure counters persist
// until the next successful execution.
func (h *Handlers) ResumeTrigger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	t, err := h.evaluator.Get(id)
	if err != nil {
		http.Error(w, "Trigger not found", http.StatusNotFound)
		return
	}
	if h.lifecycle == nil {
		http.Error(w, "Lifecycle tracking disabled", http.StatusConflict)
		return
	}
	if err := h.lifecycle.Resume(t); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, h.viewOf(t))
}

// EventRequest is an inbound event submitted for evaluation.
type EventRequest struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// EventResponse reports which triggers fired for an event.
type EventResponse struct {
	Fired []TriggerView `json:"fired"`
}

// SubmitEvent evaluates every active trigger against an inbound event and
// returns the ones that fired.
func (h *Handlers) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		http.Error(w, "Event type is required", http.StatusBadRequest)
		return
	}

	ctx := conditions.NewEventContext(req.Type, req.Payload)
	fired, err := h.evaluator.EvaluateAll(ctx)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			h.logger.Warn("evaluation error during event dispatch",
				logging.String("detail", appErr.LogEntry()))
		} else {
			h.logger.Warn("evaluation error during event dispatch", logging.Err(err))
		}
	}

	now := time.Now()
	views := make([]TriggerView, len(fired))
	for i, t := range fired {
		if h.scheduler != nil {
			h.scheduler.RecordFiring(t.ID(), now)
		}
		if h.lifecycle != nil {
			if execErr := h.lifecycle.Execute(t, func() error { return nil }); execErr != nil {
				h.logger.Warn("execution state update failed",
					logging.String("trigger_id", t.ID()),
					logging.Err(execErr),
				)
			}
		}
		views[i] = h.viewOf(t)
	}

	writeJSON(w, http.StatusOK, EventResponse{Fired: views})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
