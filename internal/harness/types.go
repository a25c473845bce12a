package harness

// TraceEvent records one resolution made by the engine.
type TraceEvent struct {
	Pass     int     `json:"pass"`
	Relation string  `json:"relation"`
	Symbol   string  `json:"symbol"`
	Value    float64 `json:"value"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Err is the error kind the engine reported, if any.
	Err string `json:"error,omitempty"`

	// Trace contains every resolution in order.
	Trace []TraceEvent `json:"trace"`

	// Derived holds solved values by symbol.
	Derived map[string]float64 `json:"derived"`

	// Derivable and Redundant are the dry-run sets, sorted.
	Derivable []string `json:"derivable"`
	Redundant []string `json:"redundant"`

	// Passes and FixedPoint describe how propagation ended.
	Passes     int  `json:"passes"`
	FixedPoint bool `json:"fixed_point"`

	// Failures counts root finds that did not converge.
	Failures int `json:"failures"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []TraceEvent{},
		Derived:   make(map[string]float64),
		Derivable: []string{},
		Redundant: []string{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a resolution to the trace.
func (r *Result) AddTrace(pass int, relation, symbol string, value float64) {
	r.Trace = append(r.Trace, TraceEvent{
		Pass:     pass,
		Relation: relation,
		Symbol:   symbol,
		Value:    value,
	})
}
