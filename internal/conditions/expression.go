package conditions

import (
	"strings"

	"trigger-engine/internal/common/errors"
)

// MaxLogicalExpressionLength bounds expression text length.
const MaxLogicalExpressionLength = 1000

var operatorTokens = []string{"AND", "OR", "NOT", ">=", "<=", "!=", ">", "<", "="}

// LogicalExpression is free-text boolean expression source. Construction
// performs a syntactic sanity check only; semantic evaluation against a
// context is delegated to an ExpressionEvaluator.
type LogicalExpression struct {
	raw string
}

// NewLogicalExpression validates and wraps expression text. The text must
// contain at least one recognized operator token.
func NewLogicalExpression(raw string) (LogicalExpression, error) {
	if raw == "" {
		return LogicalExpression{}, errors.EmptyValue("logical_expression")
	}
	if len(raw) > MaxLogicalExpressionLength {
		return LogicalExpression{}, errors.TooLong("logical_expression", len(raw), MaxLogicalExpressionLength)
	}

	if !containsOperator(raw) {
		return LogicalExpression{}, errors.InvalidValue("logical_expression", raw,
			"expression must contain at least one operator (AND, OR, NOT, >, <, >=, <=, =, !=)")
	}

	return LogicalExpression{raw: raw}, nil
}

func containsOperator(text string) bool {
	upper := strings.ToUpper(text)
	for _, op := range operatorTokens {
		if strings.Contains(upper, op) {
			return true
		}
	}
	return false
}

// String returns the expression source text.
func (e LogicalExpression) String() string {
	return e.raw
}
