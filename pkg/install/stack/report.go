/*
Copyright 2025 the vpc-lattice-centralized-endpoints contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stack

import (
	"github.com/sirupsen/logrus"
)

// Outcome is the result of one teardown step.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeNotFound  Outcome = "not-found"
	OutcomeFailed    Outcome = "failed"
)

// ReportItem records the teardown outcome for one resource.
type ReportItem struct {
	Resource string
	Outcome  Outcome
	Err      error
}

// Report collects teardown outcomes so that a partial teardown is visible at
// the end and re-runs can converge on the leftovers.
type Report struct {
	Items []ReportItem
}

func (r *Report) Succeeded(resource string) {
	r.Items = append(r.Items, ReportItem{Resource: resource, Outcome: OutcomeSucceeded})
}

func (r *Report) NotFound(resource string) {
	r.Items = append(r.Items, ReportItem{Resource: resource, Outcome: OutcomeNotFound})
}

func (r *Report) Failed(resource string, err error) {
	r.Items = append(r.Items, ReportItem{Resource: resource, Outcome: OutcomeFailed, Err: err})
}

// Record translates the (existed, err) convention of the deletion helpers
// into a report entry.
func (r *Report) Record(resource string, existed bool, err error) {
	switch {
	case err != nil:
		r.Failed(resource, err)
	case !existed:
		r.NotFound(resource)
	default:
		r.Succeeded(resource)
	}
}

// HasFailures reports whether any step failed.
func (r *Report) HasFailures() bool {
	for _, item := range r.Items {
		if item.Outcome == OutcomeFailed {
			return true
		}
	}

	return false
}

// Summarize prints one line per failed or skipped resource plus a total.
func (r *Report) Summarize(logger logrus.FieldLogger) {
	succeeded, notFound := 0, 0

	for _, item := range r.Items {
		switch item.Outcome {
		case OutcomeSucceeded:
			succeeded++
		case OutcomeNotFound:
			notFound++
		case OutcomeFailed:
			logger.Warnf("Failed to delete %s: %v", item.Resource, item.Err)
		}
	}

	logger.Infof("Deleted %d resource(s), %d did not exist anymore.", succeeded, notFound)
}
