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

package stack_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/hub"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/spoke"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws/fake"
)

// TestFullPipeline drives the complete provisioning and teardown sequence the
// way the all and cleanup commands do.
func TestFullPipeline(t *testing.T) {
	cloud := fake.NewCloud()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	opt := stack.DeployOptions{
		Prefix:       "central-vpce",
		Region:       "eu-west-1",
		StateFile:    filepath.Join(t.TempDir(), "outputs.json"),
		Hub:          cloud.ClientSet("hub"),
		SpokeDev:     cloud.ClientSet("spoke-dev"),
		SpokeTest:    cloud.ClientSet("spoke-test"),
		Logger:       logger,
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
		RetryDelay:   time.Millisecond,
	}

	ctx := context.Background()

	if err := hub.NewStack().Deploy(ctx, opt); err != nil {
		t.Fatalf("failed to deploy the hub: %v", err)
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatal(err)
	}
	opt.Outputs = outputs

	for _, environment := range []string{"dev", "test"} {
		if err := spoke.NewStack(environment).Deploy(ctx, opt); err != nil {
			t.Fatalf("failed to deploy the %s spoke: %v", environment, err)
		}
	}

	checks := map[string]int{
		"CreateServiceNetwork":                    1,
		"CreateResourceGateway":                   1,
		"CreateResourceConfiguration":             4,
		"CreateServiceNetworkResourceAssociation": 4,
		"CreateServiceNetworkVpcAssociation":      3, // hub VPC + both spokes
		"CreateHostedZone":                        4,
		"CreateResourceShare":                     1,
		"CreateStack":                             3, // substrate + two workload stacks
	}

	for op, expected := range checks {
		if actual := cloud.CountOp(op); actual != expected {
			t.Errorf("expected %d %s call(s), got %d", expected, op, actual)
		}
	}

	// tear everything down again, spokes first
	report := &stack.Report{}
	for _, s := range []stack.Stack{spoke.NewStack("test"), spoke.NewStack("dev"), hub.NewStack()} {
		s.CleanUp(ctx, opt, report)
	}

	if report.HasFailures() {
		for _, item := range report.Items {
			if item.Outcome == stack.OutcomeFailed {
				t.Errorf("failed to delete %s: %v", item.Resource, item.Err)
			}
		}
		t.Fatal("teardown reported failures")
	}

	deletions := map[string]int{
		"DeleteServiceNetwork":                    1,
		"DeleteResourceGateway":                   1,
		"DeleteResourceConfiguration":             4,
		"DeleteServiceNetworkResourceAssociation": 4,
		"DeleteServiceNetworkVpcAssociation":      3,
		"DeleteHostedZone":                        4,
		"DeleteResourceShare":                     1,
		"DeleteStack":                             3,
	}

	for op, expected := range deletions {
		if actual := cloud.CountOp(op); actual != expected {
			t.Errorf("expected %d %s call(s), got %d", expected, op, actual)
		}
	}
}
