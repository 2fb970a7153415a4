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

package spoke

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/hub"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws/fake"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func testOptions(t *testing.T, cloud *fake.Cloud) stack.DeployOptions {
	return stack.DeployOptions{
		Prefix:       "central-vpce",
		Region:       "eu-west-1",
		StateFile:    filepath.Join(t.TempDir(), "outputs.json"),
		Hub:          cloud.ClientSet("hub"),
		SpokeDev:     cloud.ClientSet("spoke-dev"),
		SpokeTest:    cloud.ClientSet("spoke-test"),
		Logger:       testLogger(),
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
		RetryDelay:   time.Millisecond,
	}
}

// deployHub provisions the hub so the spoke has something to join, and loads
// the resulting outputs into the options.
func deployHub(t *testing.T, cloud *fake.Cloud, opt *stack.DeployOptions) {
	t.Helper()

	if err := hub.NewStack().Deploy(context.Background(), *opt); err != nil {
		t.Fatalf("failed to deploy the hub: %v", err)
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatal(err)
	}
	opt.Outputs = outputs
}

func TestDeployRequiresHubOutputs(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	err := NewStack("dev").Deploy(context.Background(), opt)
	if err == nil {
		t.Fatal("expected the deployment to fail without hub outputs")
	}

	if count := len(cloud.Calls()); count != 0 {
		t.Errorf("expected no API calls before the precondition check, got %d", count)
	}
}

func TestDeploy(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)
	deployHub(t, cloud, &opt)

	if err := NewStack("dev").Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy the spoke: %v", err)
	}

	// one association per service zone, each authorized first and revoked after
	if count := cloud.CountOp("CreateVPCAssociationAuthorization"); count != 4 {
		t.Errorf("expected 4 authorizations, got %d", count)
	}
	if count := cloud.CountOp("AssociateVPCWithHostedZone"); count != 4 {
		t.Errorf("expected 4 zone associations, got %d", count)
	}
	if count := cloud.CountOp("DeleteVPCAssociationAuthorization"); count != 4 {
		t.Errorf("expected 4 revocations, got %d", count)
	}

	// hub VPC plus the spoke VPC
	if count := cloud.CountOp("CreateServiceNetworkVpcAssociation"); count != 2 {
		t.Errorf("expected 2 service network VPC associations, got %d", count)
	}

	calls := cloud.Calls()
	for i, call := range calls {
		if call.Op != "AssociateVPCWithHostedZone" || call.Account != "spoke-dev" {
			continue
		}

		authorized := false
		for _, earlier := range calls[:i] {
			if earlier.Op == "CreateVPCAssociationAuthorization" && earlier.Account == "hub" {
				authorized = true
			}
		}
		if !authorized {
			t.Error("the spoke associated with a zone before the hub authorized it")
		}
	}
}

func TestDeployIsIdempotent(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)
	deployHub(t, cloud, &opt)

	if err := NewStack("dev").Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy the spoke: %v", err)
	}

	stacks := cloud.CountOp("CreateStack")
	associations := cloud.CountOp("CreateServiceNetworkVpcAssociation")

	// the second run re-runs the handshake; the zone association conflict
	// counts as success
	if err := NewStack("dev").Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy the spoke a second time: %v", err)
	}

	if count := cloud.CountOp("CreateStack"); count != stacks {
		t.Errorf("second deployment created %d additional stack(s)", count-stacks)
	}
	if count := cloud.CountOp("CreateServiceNetworkVpcAssociation"); count != associations {
		t.Errorf("second deployment created %d additional VPC association(s)", count-associations)
	}
}

func TestDeployFailsOnFailedAssociation(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)
	deployHub(t, cloud, &opt)

	cloud.VPCAssociationFails = true

	err := NewStack("dev").Deploy(context.Background(), opt)
	if err == nil {
		t.Fatal("expected the deployment to fail on the failed VPC association")
	}

	// no DNS work may happen for a spoke that is not on the service network
	if count := cloud.CountOp("AssociateVPCWithHostedZone"); count != 0 {
		t.Errorf("expected no zone associations after the failed VPC association, got %d", count)
	}
}

func TestCleanUp(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)
	deployHub(t, cloud, &opt)

	if err := NewStack("dev").Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy the spoke: %v", err)
	}

	report := &stack.Report{}
	NewStack("dev").CleanUp(context.Background(), opt, report)

	if report.HasFailures() {
		for _, item := range report.Items {
			if item.Outcome == stack.OutcomeFailed {
				t.Errorf("failed to delete %s: %v", item.Resource, item.Err)
			}
		}
		t.Fatal("teardown reported failures")
	}

	if cloud.FirstOpIndex("DisassociateVPCFromHostedZone") == -1 {
		t.Error("expected the spoke VPC to be disassociated from the zones")
	}
	if cloud.FirstOpIndex("DeleteServiceNetworkVpcAssociation") == -1 {
		t.Error("expected the service network association to be removed")
	}

	// associations must be gone before the workload stack goes
	if cloud.LastOpIndex("DeleteServiceNetworkVpcAssociation") > cloud.FirstOpIndex("DeleteStack") {
		t.Error("the service network association must be removed before the workload stack")
	}
}

func TestCleanUpOnEmptyAccount(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	report := &stack.Report{}
	NewStack("test").CleanUp(context.Background(), opt, report)

	if report.HasFailures() {
		t.Fatal("teardown of an empty account must not fail")
	}
}
