// Package expression evaluates logical expression text against a field
// environment using the expr language, with compiled-program caching and
// rate limiting.
package expression

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"trigger-engine/internal/common/errors"
)

// Evaluator compiles and runs boolean expressions. Compiled programs are
// cached by normalized source text; evaluation throughput is rate limited
// to protect against pathological condition churn.
type Evaluator struct {
	cache       *gocache.Cache
	mu          sync.Mutex
	maxItems    int
	rateLimiter *rate.Limiter
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCacheExpiration overrides the compiled-program cache expiration.
func WithCacheExpiration(expiration time.Duration) Option {
	return func(e *Evaluator) {
		e.cache = gocache.New(expiration, expiration*2)
	}
}

// WithRateLimit overrides evaluations-per-second and burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(e *Evaluator) {
		e.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewEvaluator creates an evaluator with a 5 minute cache expiration and a
// limit of 100 evaluations per second.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		cache:       gocache.New(5*time.Minute, 10*time.Minute),
		maxItems:    1000,
		rateLimiter: rate.NewLimiter(rate.Limit(100), 10),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateBool evaluates expression text against the environment and
// coerces the result to a boolean. Non-boolean results are an error.
func (e *Evaluator) EvaluateBool(expression string, env map[string]interface{}) (bool, error) {
	result, err := e.Evaluate(expression, env)
	if err != nil {
		return false, err
	}

	b, ok := result.(bool)
	if !ok {
		return false, errors.InvalidInputError("trigger.expression.not_boolean",
			fmt.Sprintf("expression %q evaluated to %T, expected bool", expression, result))
	}
	return b, nil
}

// Evaluate evaluates expression text against the environment.
func (e *Evaluator) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	if !e.rateLimiter.Allow() {
		return nil, errors.InternalError("trigger.expression.rate_limited",
			"expression evaluation rate limit exceeded", nil)
	}

	if env == nil {
		env = make(map[string]interface{})
	}

	normalized := Normalize(expression)

	if cached, found := e.cache.Get(normalized); found {
		if program, ok := cached.(*vm.Program); ok {
			return e.run(program, env, expression)
		}
	}

	program, err := expr.Compile(normalized, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.InvalidInputError("trigger.expression.compile_failed",
			fmt.Sprintf("failed to compile expression %q", expression)).WithCause(err)
	}

	e.store(normalized, program)

	return e.run(program, env, expression)
}

func (e *Evaluator) run(program *vm.Program, env map[string]interface{}, source string) (interface{}, error) {
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, errors.InternalError("trigger.expression.eval_failed",
			fmt.Sprintf("failed to evaluate expression %q", source), err)
	}
	return result, nil
}

// store caches a compiled program, evicting expired entries when the cache
// is full and skipping the write when eviction frees nothing.
func (e *Evaluator) store(key string, program *vm.Program) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache.ItemCount() >= e.maxItems {
		e.cache.DeleteExpired()
		if e.cache.ItemCount() >= e.maxItems {
			return
		}
	}

	e.cache.Set(key, program, gocache.DefaultExpiration)
}

// ClearCache drops all cached compiled programs.
func (e *Evaluator) ClearCache() {
	e.cache.Flush()
}

var (
	wordOperators = regexp.MustCompile(`\b(AND|OR|NOT)\b`)
	bareEquals    = regexp.MustCompile(`([^=!<>])=([^=])`)
)

// Normalize rewrites the logical-expression dialect (AND, OR, NOT, =) into
// expr syntax (&&, ||, !, ==). Comparison operators other than bare '=' are
// already expr-compatible. Quoted string literals pass through untouched.
func Normalize(expression string) string {
	masked, literals := maskStringLiterals(expression)

	out := wordOperators.ReplaceAllStringFunc(masked, func(op string) string {
		switch op {
		case "AND":
			return "&&"
		case "OR":
			return "||"
		default:
			return "!"
		}
	})
	out = bareEquals.ReplaceAllString(out, "$1==$2")

	for i, literal := range literals {
		out = strings.Replace(out, literalPlaceholder(i), literal, 1)
	}
	return strings.TrimSpace(out)
}

func literalPlaceholder(i int) string {
	return fmt.Sprintf("\x00%d\x00", i)
}

// maskStringLiterals replaces single- and double-quoted literals with
// opaque placeholders so the operator rewrites never fire inside them.
// An unterminated literal is left as-is for the compiler to reject.
func maskStringLiterals(s string) (string, []string) {
	var masked strings.Builder
	var literals []string

	for i := 0; i < len(s); {
		quote := s[i]
		if quote != '"' && quote != '\'' {
			masked.WriteByte(quote)
			i++
			continue
		}

		j := i + 1
		for j < len(s) && s[j] != quote {
			if s[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(s) {
			masked.WriteString(s[i:])
			break
		}

		masked.WriteString(literalPlaceholder(len(literals)))
		literals = append(literals, s[i:j+1])
		i = j + 1
	}

	return masked.String(), literals
}
