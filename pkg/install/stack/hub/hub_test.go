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

package hub

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws/fake"

	"k8s.io/utils/ptr"
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

var createOps = []string{
	"CreateStack",
	"CreateVpcEndpoint",
	"CreateServiceNetwork",
	"CreateResourceGateway",
	"CreateResourceConfiguration",
	"CreateServiceNetworkResourceAssociation",
	"CreateServiceNetworkVpcAssociation",
	"CreateResourceShare",
	"CreateHostedZone",
}

func TestDeploy(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}

	expected := map[string]int{
		"CreateStack":                             1,
		"CreateVpcEndpoint":                       5, // 4 interface + 1 gateway
		"CreateServiceNetwork":                    1,
		"CreateResourceGateway":                   1,
		"CreateResourceConfiguration":             4,
		"CreateServiceNetworkResourceAssociation": 4,
		"CreateServiceNetworkVpcAssociation":      1,
		"CreateResourceShare":                     1,
		"CreateHostedZone":                        4,
	}

	for op, count := range expected {
		if actual := cloud.CountOp(op); actual != count {
			t.Errorf("expected %d %s call(s), got %d", count, op, actual)
		}
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatalf("failed to load the outputs written by the deployment: %v", err)
	}

	if outputs.HubVPCID == "" || outputs.ServiceNetworkID == "" || outputs.ServiceNetworkARN == "" || outputs.ResourceGatewayID == "" {
		t.Errorf("outputs are missing identifiers: %+v", outputs)
	}

	if len(outputs.Services) != 4 {
		t.Fatalf("expected outputs for 4 services, got %d", len(outputs.Services))
	}

	for key, service := range outputs.Services {
		if service.EndpointDNS == "" || service.LatticeDNS == "" || service.HostedZoneID == "" || service.ResourceConfigurationID == "" {
			t.Errorf("outputs for %s are incomplete: %+v", key, service)
		}
	}
}

func TestDeployIsIdempotent(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}

	before := map[string]int{}
	for _, op := range createOps {
		before[op] = cloud.CountOp(op)
	}

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy a second time: %v", err)
	}

	for _, op := range createOps {
		if after := cloud.CountOp(op); after != before[op] {
			t.Errorf("second deployment performed %d additional %s call(s)", after-before[op], op)
		}
	}
}

func TestDeployWaitsForSlowResources(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.GatewayActiveAfter = 2
	cloud.ResourceConfigActiveAfter = 2
	cloud.ResourceAssociationActiveAfter = 2
	cloud.VPCAssociationActiveAfter = 2
	cloud.StackReadyAfter = 2

	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}
}

func TestAssociationWaitsForActiveConfiguration(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.ResourceConfigStuck = true

	opt := testOptions(t, cloud)
	opt.PollTimeout = 50 * time.Millisecond

	err := NewStack().Deploy(context.Background(), opt)
	if err == nil {
		t.Fatal("expected the deployment to fail on the stuck resource configuration")
	}

	if count := cloud.CountOp("CreateServiceNetworkResourceAssociation"); count != 0 {
		t.Errorf("association was attempted %d time(s) although the configuration never became active", count)
	}
}

func TestAssociationRetriesThrottling(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.AssociationThrottles = 2

	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("expected the deployment to ride out the throttling, got: %v", err)
	}

	// 2 throttled attempts, 1 successful retry, then 3 clean creations
	if count := cloud.CountOp("CreateServiceNetworkResourceAssociation"); count != 6 {
		t.Errorf("expected 6 association creation attempts, got %d", count)
	}
}

func TestAssociationRetryIsBounded(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.AssociationThrottles = -1

	opt := testOptions(t, cloud)

	err := NewStack().Deploy(context.Background(), opt)
	if err == nil {
		t.Fatal("expected the deployment to fail when throttling never stops")
	}

	if count := cloud.CountOp("CreateServiceNetworkResourceAssociation"); count != 3 {
		t.Errorf("expected exactly 3 association creation attempts, got %d", count)
	}
}

func TestHubVPCAssociationFailureIsNotFatal(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.VPCAssociationFails = true

	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("expected the deployment to tolerate the failed hub VPC association, got: %v", err)
	}

	// the DNS zones still get deployed
	if count := cloud.CountOp("CreateHostedZone"); count != 4 {
		t.Errorf("expected 4 hosted zones, got %d", count)
	}
}

func TestCleanUp(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatal(err)
	}
	opt.Outputs = outputs

	report := &stack.Report{}
	NewStack().CleanUp(context.Background(), opt, report)

	if report.HasFailures() {
		for _, item := range report.Items {
			if item.Outcome == stack.OutcomeFailed {
				t.Errorf("failed to delete %s: %v", item.Resource, item.Err)
			}
		}
		t.Fatal("teardown reported failures")
	}

	// the share must be revoked before associations go, associations before
	// configurations, configurations before the gateway, and the service
	// network last
	ordering := []string{
		"DeleteResourceShare",
		"DeleteServiceNetworkVpcAssociation",
		"DeleteServiceNetworkResourceAssociation",
		"DeleteResourceConfiguration",
		"DeleteResourceGateway",
		"DeleteServiceNetwork",
	}

	for i := 0; i < len(ordering)-1; i++ {
		last := cloud.LastOpIndex(ordering[i])
		next := cloud.FirstOpIndex(ordering[i+1])

		if last == -1 || next == -1 {
			t.Fatalf("expected both %s and %s to have happened", ordering[i], ordering[i+1])
		}
		if last > next {
			t.Errorf("%s must finish before %s starts", ordering[i], ordering[i+1])
		}
	}

	if cloud.FirstOpIndex("DeleteHostedZone") == -1 {
		t.Error("expected the hosted zones to be deleted")
	}
	if cloud.FirstOpIndex("DeleteVpcEndpoints") == -1 {
		t.Error("expected the VPC endpoints to be deleted")
	}
	if cloud.FirstOpIndex("DeleteStack") == -1 {
		t.Error("expected the substrate stack to be deleted")
	}
}

func TestCleanUpOnEmptyAccountReportsNotFound(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	report := &stack.Report{}
	NewStack().CleanUp(context.Background(), opt, report)

	if report.HasFailures() {
		t.Fatal("teardown of an empty account must not fail")
	}

	for _, item := range report.Items {
		if item.Outcome != stack.OutcomeNotFound {
			t.Errorf("expected %s to be reported as not-found, got %s", item.Resource, item.Outcome)
		}
	}
}

func TestCleanUpRecordsFailuresAndContinues(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}

	// wedge the zones so their deletion fails, everything else must still
	// be attempted
	cloud.ZoneDeleteFails = true

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatal(err)
	}
	opt.Outputs = outputs

	report := &stack.Report{}
	NewStack().CleanUp(context.Background(), opt, report)

	if !report.HasFailures() {
		t.Error("expected the report to record the zone deletion failures")
	}
	if cloud.FirstOpIndex("DeleteServiceNetwork") == -1 {
		t.Error("expected the teardown to reach the service network despite earlier failures")
	}
	if cloud.FirstOpIndex("DeleteStack") == -1 {
		t.Error("expected the teardown to reach the substrate stack despite earlier failures")
	}
}

func zoneCNAMEs(t *testing.T, opt stack.DeployOptions, zoneID string) []r53types.ResourceRecordSet {
	t.Helper()

	out, err := opt.Hub.Route53.ListResourceRecordSets(context.Background(), &route53.ListResourceRecordSetsInput{
		HostedZoneId: ptr.To(zoneID),
	})
	if err != nil {
		t.Fatalf("failed to list records of zone %s: %v", zoneID, err)
	}

	var cnames []r53types.ResourceRecordSet
	for _, record := range out.ResourceRecordSets {
		if record.Type == r53types.RRTypeCname {
			cnames = append(cnames, record)
		}
	}

	return cnames
}

func TestZonesCarryExactlyOneCNAME(t *testing.T) {
	cloud := fake.NewCloud()
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("failed to deploy: %v", err)
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatalf("failed to load outputs: %v", err)
	}

	for _, service := range stack.EndpointServices {
		domain := service.DomainName(opt.Region)
		serviceOutputs := outputs.Services[service.Key]

		cnames := zoneCNAMEs(t, opt, serviceOutputs.HostedZoneID)
		if len(cnames) != 1 {
			t.Fatalf("expected exactly 1 CNAME in the zone for %s, got %d", domain, len(cnames))
		}

		if name := strings.TrimSuffix(ptr.Deref(cnames[0].Name, ""), "."); name != domain {
			t.Errorf("expected the CNAME to sit at the zone apex %s, got %s", domain, name)
		}

		if len(cnames[0].ResourceRecords) != 1 {
			t.Fatalf("expected a single record value for %s, got %d", domain, len(cnames[0].ResourceRecords))
		}
		if target := ptr.Deref(cnames[0].ResourceRecords[0].Value, ""); target != serviceOutputs.LatticeDNS {
			t.Errorf("expected %s to point at %s, got %s", domain, serviceOutputs.LatticeDNS, target)
		}
	}
}

func TestCNAMEUpsertFailureIsNotFatal(t *testing.T) {
	cloud := fake.NewCloud()
	cloud.RecordChangeFails = true
	opt := testOptions(t, cloud)

	if err := NewStack().Deploy(context.Background(), opt); err != nil {
		t.Fatalf("expected the deployment to survive failing record changes, got: %v", err)
	}

	outputs, err := state.Load(opt.StateFile)
	if err != nil {
		t.Fatalf("failed to load outputs: %v", err)
	}

	for _, service := range stack.EndpointServices {
		serviceOutputs := outputs.Services[service.Key]
		if serviceOutputs.HostedZoneID == "" {
			t.Fatalf("expected a hosted zone for %s even without records", service.Key)
		}

		if cnames := zoneCNAMEs(t, opt, serviceOutputs.HostedZoneID); len(cnames) != 0 {
			t.Errorf("expected no CNAME for %s, got %d", service.Key, len(cnames))
		}
	}
}
