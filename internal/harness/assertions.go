package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] pass %d %s -> %s = %g\n", i+1, event.Pass, event.Relation, event.Symbol, event.Value)
	}

	return buf.String()
}

// assertResolutionOrder checks that symbols were resolved in the given
// relative order. Other resolutions may appear in between.
func assertResolutionOrder(result *Result, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range result.Trace {
		if _, seen := positions[event.Symbol]; !seen {
			positions[event.Symbol] = i + 1 // 1-indexed for readability
		}
	}

	for _, s := range assertion.Symbols {
		if positions[s] == 0 {
			return &AssertionError{
				Type:     AssertResolutionOrder,
				Expected: fmt.Sprintf("all symbols resolved: %v", assertion.Symbols),
				Actual:   fmt.Sprintf("missing symbol: %s", s),
				Trace:    result.Trace,
			}
		}
	}

	for i := 1; i < len(assertion.Symbols); i++ {
		prev := assertion.Symbols[i-1]
		curr := assertion.Symbols[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertResolutionOrder,
				Expected: fmt.Sprintf("symbols in order: %v", assertion.Symbols),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: result.Trace,
			}
		}
	}

	return nil
}

// assertResolvedBy checks which relation produced a symbol.
func assertResolvedBy(result *Result, assertion Assertion) error {
	for _, event := range result.Trace {
		if event.Symbol != assertion.Symbol {
			continue
		}
		if event.Relation == assertion.Relation {
			return nil
		}
		return &AssertionError{
			Type:     AssertResolvedBy,
			Expected: fmt.Sprintf("%s resolved by %s", assertion.Symbol, assertion.Relation),
			Actual:   fmt.Sprintf("resolved by %s", event.Relation),
			Trace:    result.Trace,
		}
	}
	return &AssertionError{
		Type:     AssertResolvedBy,
		Expected: fmt.Sprintf("%s resolved by %s", assertion.Symbol, assertion.Relation),
		Actual:   "not resolved",
		Trace:    result.Trace,
	}
}

func assertPassCount(result *Result, assertion Assertion) error {
	if result.Passes != assertion.Count {
		return &AssertionError{
			Type:     AssertPassCount,
			Expected: fmt.Sprintf("%d passes", assertion.Count),
			Actual:   fmt.Sprintf("%d passes", result.Passes),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertFixedPoint(result *Result, assertion Assertion) error {
	if result.FixedPoint != *assertion.Reached {
		return &AssertionError{
			Type:     AssertFixedPoint,
			Expected: fmt.Sprintf("fixed point reached: %t", *assertion.Reached),
			Actual:   fmt.Sprintf("fixed point reached: %t after %d passes", result.FixedPoint, result.Passes),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertResolutionOrder:
			err = assertResolutionOrder(result, assertion)
		case AssertResolvedBy:
			err = assertResolvedBy(result, assertion)
		case AssertPassCount:
			err = assertPassCount(result, assertion)
		case AssertFixedPoint:
			if assertion.Reached == nil {
				err = fmt.Errorf("assertion[%d]: fixed_point requires reached", i)
			} else {
				err = assertFixedPoint(result, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
