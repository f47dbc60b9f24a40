/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"
)

// Outcome classifies a case result.
type Outcome string

const (
	// Passed means the adapter matched the reference.
	Passed Outcome = "pass"
	// Failed means the adapter differed from the reference.
	Failed Outcome = "fail"
	// Errored means the case could not run, e.g. the provider rejected a write.
	Errored Outcome = "error"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	ID       string          `json:"id" yaml:"id"`
	Operator Operator        `json:"operator" yaml:"operator"`
	Kind     string          `json:"kind" yaml:"kind"`
	Overload Overload        `json:"overload" yaml:"overload"`
	Behavior Behavior        `json:"behavior" yaml:"behavior"`
	Policy   string          `json:"policy" yaml:"policy"`
	Outcome  Outcome         `json:"outcome" yaml:"outcome"`
	Message  string          `json:"message,omitempty" yaml:"message,omitempty"`
	Duration strfmt.Duration `json:"duration" yaml:"duration"`

	err error
}

// Err returns the error of a failed or errored case.
func (r CaseResult) Err() error {
	return r.err
}

func newCaseResult(c Case, err error, duration strfmt.Duration) CaseResult {
	r := CaseResult{
		ID:       c.ID(),
		Operator: c.Operator,
		Kind:     c.Kind,
		Overload: c.Overload,
		Behavior: c.Behavior,
		Policy:   c.Policy.String(),
		Outcome:  Passed,
		Duration: duration,
		err:      err,
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrMismatch):
		r.Outcome = Failed
		r.Message = err.Error()
	default:
		r.Outcome = Errored
		r.Message = err.Error()
	}
	return r
}

// Report summarizes a conformance run.
type Report struct {
	Provider string          `json:"provider" yaml:"provider"`
	Keyspace string          `json:"keyspace" yaml:"keyspace"`
	Started  strfmt.DateTime `json:"started" yaml:"started"`
	Duration strfmt.Duration `json:"duration" yaml:"duration"`
	Total    int             `json:"total" yaml:"total"`
	Passed   int             `json:"passed" yaml:"passed"`
	Failed   int             `json:"failed" yaml:"failed"`
	Errored  int             `json:"errored" yaml:"errored"`
	Cases    []CaseResult    `json:"cases" yaml:"cases"`
}

func (r *Report) add(res CaseResult) {
	r.Cases = append(r.Cases, res)
	r.Total++
	switch res.Outcome {
	case Passed:
		r.Passed++
	case Failed:
		r.Failed++
	case Errored:
		r.Errored++
	}
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Passed == r.Total
}

// Failures returns the cases that did not pass.
func (r *Report) Failures() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if c.Outcome != Passed {
			out = append(out, c)
		}
	}
	return out
}

// Summary is a one-line description of the totals.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d cases, %d passed, %d failed, %d errored in %s",
		r.Provider, r.Total, r.Passed, r.Failed, r.Errored, r.Duration)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Write renders the report to w in format "json" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = r.JSON()
	case "yaml", "yml":
		data, err = r.YAML()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
