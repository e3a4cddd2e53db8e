// =============================================================================
// Payment Auditor - Validation Engine
// =============================================================================
//
// The engine takes a dataset normalized to logical field names, coerces it
// and runs every registered rule over the result.
//
// GUARANTEES:
//   - The input dataset is never modified.
//   - Rules are isolated: a rule that panics records an error in its own
//     result and the remaining rules still run.
//   - Running twice on the same dataset gives the same result set.
//
// =============================================================================

package audit

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/mapper"
)

// =============================================================================
// RESULTS
// =============================================================================

// RuleResult holds the rows flagged by one rule.
type RuleResult struct {
	Name string
	Rows []dataset.Row

	// Err is set when the rule could not finish. Rows is empty then.
	Err error
}

// Count returns the number of flagged rows.
func (r RuleResult) Count() int { return len(r.Rows) }

// ResultSet is the outcome of one run, rules in registry order. A rule that
// was skipped has no entry.
type ResultSet struct {
	// Columns of the coerced dataset, for rendering the flagged rows.
	Columns []string

	// Window the date rule checked against.
	Window Window

	Results []RuleResult
}

// Get returns the result of a rule. ok is false when the rule did not run,
// which is different from a rule that ran and flagged nothing.
func (rs *ResultSet) Get(name string) (RuleResult, bool) {
	for _, r := range rs.Results {
		if r.Name == name {
			return r, true
		}
	}
	return RuleResult{}, false
}

// Names returns the names of the rules that ran, in order.
func (rs *ResultSet) Names() []string {
	names := make([]string, len(rs.Results))
	for i, r := range rs.Results {
		names[i] = r.Name
	}
	return names
}

// Failed returns the results of rules that did not finish.
func (rs *ResultSet) Failed() []RuleResult {
	var out []RuleResult
	for _, r := range rs.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Flagged returns the number of flagged rows summed over all rules.
func (rs *ResultSet) Flagged() int {
	total := 0
	for _, r := range rs.Results {
		total += r.Count()
	}
	return total
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs a fixed list of rules.
type Engine struct {
	rules  []Rule
	window Window
	logger log.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFiscalYear checks payment dates against the given calendar year.
func WithFiscalYear(year int) Option {
	return func(e *Engine) { e.window = FiscalYear(year) }
}

// WithWindow checks payment dates against an arbitrary closed window.
func WithWindow(w Window) Option {
	return func(e *Engine) { e.window = w }
}

// WithRules replaces the default rules.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = append([]Rule(nil), rules...) }
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l log.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with the default rules and fiscal year.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:  DefaultRules(),
		window: FiscalYear(DefaultFiscalYear),
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window returns the date window the engine checks against.
func (e *Engine) Window() Window { return e.window }

// Process validates the mapping, applies it to the raw dataset and runs
// the rules. A mapping error stops the run before any rule executes.
func (e *Engine) Process(raw *dataset.Dataset, m mapper.Mapping) (*ResultSet, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	normalized, err := mapper.Apply(raw, m)
	if err != nil {
		return nil, err
	}

	return e.Run(normalized)
}

// Run coerces a normalized dataset and runs every applicable rule.
//
// PARAMETERS:
//   - normalized: dataset whose columns carry logical field names
//
// RETURNS:
//   - *ResultSet: one entry per rule that ran
//   - error: *MissingColumnError when a required field is absent
func (e *Engine) Run(normalized *dataset.Dataset) (*ResultSet, error) {
	var missing []mapper.Field
	for _, f := range mapper.RequiredFields {
		if !normalized.HasColumn(string(f)) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Fields: missing}
	}

	started := time.Now()
	coerced := Coerce(normalized)
	params := Params{Window: e.window}

	rs := &ResultSet{Columns: coerced.Columns(), Window: e.window}
	for _, rule := range e.rules {
		if !rule.applies(coerced) {
			e.logger.WithField("rule", rule.Name).Debug("rule skipped, required field not mapped")
			continue
		}

		rows, err := runRule(rule, coerced, params)
		if err != nil {
			e.logger.WithField("rule", rule.Name).WithError(err).Warn("rule failed")
		} else {
			e.logger.WithFields(log.Fields{"rule": rule.Name, "rows": len(rows)}).Debug("rule finished")
		}
		rs.Results = append(rs.Results, RuleResult{Name: rule.Name, Rows: rows, Err: err})
	}

	e.logger.WithFields(log.Fields{
		"rows":     coerced.Len(),
		"rules":    len(rs.Results),
		"flagged":  rs.Flagged(),
		"window":   e.window.String(),
		"duration": time.Since(started),
	}).Debug("audit run complete")

	return rs, nil
}

// runRule calls the detector, turning a panic into an error.
func runRule(rule Rule, ds *dataset.Dataset, p Params) (rows []dataset.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("%w: %s: %v", ErrRuleFailed, rule.Name, r)
		}
	}()

	if rule.Detect == nil {
		return nil, fmt.Errorf("%w: %s: no detector", ErrRuleFailed, rule.Name)
	}
	return rule.Detect(ds, p), nil
}
