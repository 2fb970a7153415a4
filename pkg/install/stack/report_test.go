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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportRecord(t *testing.T) {
	testcases := []struct {
		name     string
		existed  bool
		err      error
		expected Outcome
	}{
		{
			name:     "deleted resources are reported as succeeded",
			existed:  true,
			expected: OutcomeSucceeded,
		},
		{
			name:     "missing resources are reported as not-found",
			existed:  false,
			expected: OutcomeNotFound,
		},
		{
			name:     "errors win over existence",
			existed:  true,
			err:      errors.New("access denied"),
			expected: OutcomeFailed,
		},
		{
			name:     "errors on missing resources are still failures",
			existed:  false,
			err:      errors.New("throttled"),
			expected: OutcomeFailed,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			report := &Report{}
			report.Record("vpc-endpoint foo", testcase.existed, testcase.err)

			assert.Len(t, report.Items, 1)
			assert.Equal(t, testcase.expected, report.Items[0].Outcome)
			assert.Equal(t, testcase.err, report.Items[0].Err)
		})
	}
}

func TestReportHasFailures(t *testing.T) {
	report := &Report{}
	assert.False(t, report.HasFailures(), "empty report should have no failures")

	report.Succeeded("service network")
	report.NotFound("hosted zone")
	assert.False(t, report.HasFailures())

	report.Failed("resource share", errors.New("dependency violation"))
	assert.True(t, report.HasFailures())
}
