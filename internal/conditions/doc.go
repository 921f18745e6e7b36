// Package conditions implements the condition model for triggers.
//
// Conditions exist on two levels. The definition level is a recursive tree
// (Condition) built from timer, event, expression, always and never leaves
// combined with AND/OR/NOT. The tree is what gets configured, validated and
// displayed. The evaluation level is a flat, priority-ordered list of
// TriggerCondition instances compiled from a tree; a trigger fires only when
// every compiled condition matches, evaluated in ascending priority order
// with short-circuit on the first non-match or error.
package conditions
