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

package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	k8swait "k8s.io/apimachinery/pkg/util/wait"
)

// ConditionFunc reports on an asynchronous condition. A nil transient error
// means the condition is satisfied; a non-nil terminal error aborts the
// polling immediately.
type ConditionFunc func() (transient error, terminal error)

// Poll waits for the condition to be satisfied, checking every interval until
// the timeout elapses. In case of a timeout, the last transient error is
// wrapped into the returned context.DeadlineExceeded so callers can
// distinguish "never became ready" from a terminal failure.
func Poll(ctx context.Context, interval, timeout time.Duration, condition ConditionFunc) error {
	return enrich(false, ctx, nil, interval, timeout, condition)
}

// PollLog is an extension of Poll and will, if a transient error occurs,
// log that error on the INFO level using the given logger. Use this if you
// want continuous feedback and make sure to set a sensible interval
// like 5+ seconds.
func PollLog(ctx context.Context, log logrus.FieldLogger, interval, timeout time.Duration, condition ConditionFunc) error {
	return enrich(false, ctx, log, interval, timeout, condition)
}

// PollImmediate works like Poll, but checks the condition once before
// beginning to wait.
func PollImmediate(ctx context.Context, interval, timeout time.Duration, condition ConditionFunc) error {
	return enrich(true, ctx, nil, interval, timeout, condition)
}

// PollImmediateLog is an extension of PollImmediate and will, if a transient
// error occurs, log that error on the INFO level using the given logger.
func PollImmediateLog(ctx context.Context, log logrus.FieldLogger, interval, timeout time.Duration, condition ConditionFunc) error {
	return enrich(true, ctx, log, interval, timeout, condition)
}

func enrich(immediate bool, ctx context.Context, log logrus.FieldLogger, interval, timeout time.Duration, condition ConditionFunc) error {
	var lastErr error

	waitErr := k8swait.PollUntilContextTimeout(ctx, interval, timeout, immediate, func(_ context.Context) (done bool, err error) {
		// stop waiting if the given context was cancelled or timed out
		if err := ctx.Err(); err != nil {
			return false, err
		}

		transient, terminal := condition()
		if terminal != nil {
			return false, terminal
		}

		lastErr = transient

		// If a logger is given, we provide continuous feedback about the condition.
		if transient != nil && log != nil {
			log.Infof("Waiting: %s", transient.Error())
		}

		return transient == nil, nil
	})

	if errors.Is(waitErr, context.DeadlineExceeded) && lastErr != nil {
		waitErr = fmt.Errorf("%w; last error was: %w", waitErr, lastErr)
	}

	return waitErr
}
