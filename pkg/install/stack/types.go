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
	"context"
	"time"

	"github.com/sirupsen/logrus"

	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
)

// DeployOptions carries everything a stage needs: account clients, naming,
// timing knobs and the inter-stage outputs.
type DeployOptions struct {
	Prefix string
	Region string

	// StateFile is where the hub stage persists its outputs for the spoke
	// stages.
	StateFile string

	Hub       *awsprovider.ClientSet
	SpokeDev  *awsprovider.ClientSet
	SpokeTest *awsprovider.ClientSet

	// Outputs is populated by the hub stage and consumed by the spokes.
	Outputs *state.Outputs

	Logger logrus.FieldLogger

	// PollInterval/PollTimeout bound every wait on an asynchronous provider
	// state transition; a resource that never converges produces a timeout
	// error instead of hanging the invocation.
	PollInterval time.Duration
	PollTimeout  time.Duration

	// RetryDelay is the fixed delay between attempts of the
	// throttling-prone association call.
	RetryDelay time.Duration
}

// ApplyDefaults fills in the timing knobs.
func (o *DeployOptions) ApplyDefaults() {
	if o.PollInterval == 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.PollTimeout == 0 {
		o.PollTimeout = 10 * time.Minute
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = 10 * time.Second
	}
}

// Stack is one stage of the deployment.
type Stack interface {
	Name() string
	Deploy(ctx context.Context, opt DeployOptions) error

	// CleanUp tears the stage down again, recording per-resource outcomes
	// into the report instead of aborting on individual failures.
	CleanUp(ctx context.Context, opt DeployOptions, report *Report)
}
