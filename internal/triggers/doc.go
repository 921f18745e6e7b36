// Package triggers defines the trigger aggregate and its registry.
//
// A trigger binds an identity and a validated name to a set of compiled
// conditions and an active flag. The Evaluator is the registry and dispatch
// point: triggers are registered and unregistered there, and inbound
// contexts are evaluated against a trigger's conditions in priority order.
package triggers
