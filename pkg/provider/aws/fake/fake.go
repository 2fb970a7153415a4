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

// Package fake provides an in-memory stand-in for the AWS control plane.
// A single Cloud backs the client sets of all accounts, so cross-account
// behavior (shared service networks, the hosted zone association handshake)
// can be modelled: Lattice and Route53 state is visible across accounts,
// while stacks, endpoints and shares belong to the account that made them.
package fake

import (
	"fmt"
	"sync"

	"github.com/aws/smithy-go"

	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

// Call is one recorded API call.
type Call struct {
	Account string
	Service string
	Op      string
}

// Cloud holds the state of the simulated control plane. The exported fields
// are knobs a test sets before running; zero values mean everything succeeds
// immediately.
type Cloud struct {
	mu     sync.Mutex
	calls  []Call
	nextID int

	// GatewayActiveAfter is how many GetResourceGateway calls return
	// CREATE_IN_PROGRESS before the gateway turns ACTIVE.
	GatewayActiveAfter int

	// ResourceConfigActiveAfter is the same for resource configurations.
	ResourceConfigActiveAfter int

	// ResourceConfigStuck keeps every resource configuration in
	// CREATE_IN_PROGRESS forever.
	ResourceConfigStuck bool

	// AssociationThrottles makes that many CreateServiceNetworkResourceAssociation
	// calls fail with a throttling error. Negative means all of them.
	AssociationThrottles int

	// ResourceAssociationActiveAfter is how many get calls return
	// CREATE_IN_PROGRESS before a resource association turns ACTIVE.
	ResourceAssociationActiveAfter int

	// VPCAssociationActiveAfter is the same for VPC associations.
	VPCAssociationActiveAfter int

	// VPCAssociationFails puts every new VPC association into CREATE_FAILED.
	VPCAssociationFails bool

	// StackReadyAfter is how many DescribeStacks calls see CREATE_IN_PROGRESS
	// before a stack turns CREATE_COMPLETE.
	StackReadyAfter int

	// ZoneDeleteFails makes every DeleteHostedZone call fail.
	ZoneDeleteFails bool

	// RecordChangeFails makes every ChangeResourceRecordSets call fail.
	RecordChangeFails bool

	stacks    map[string]*fakeStack
	endpoints map[string]*fakeEndpoint

	networks             map[string]*fakeServiceNetwork
	gateways             map[string]*fakeResourceGateway
	configurations       map[string]*fakeResourceConfiguration
	resourceAssociations map[string]*fakeResourceAssociation
	vpcAssociations      map[string]*fakeVPCAssociation

	shares map[string]*fakeResourceShare

	zones          map[string]*fakeZone
	authorizations map[string]bool
}

func NewCloud() *Cloud {
	return &Cloud{
		stacks:               map[string]*fakeStack{},
		endpoints:            map[string]*fakeEndpoint{},
		networks:             map[string]*fakeServiceNetwork{},
		gateways:             map[string]*fakeResourceGateway{},
		configurations:       map[string]*fakeResourceConfiguration{},
		resourceAssociations: map[string]*fakeResourceAssociation{},
		vpcAssociations:      map[string]*fakeVPCAssociation{},
		shares:               map[string]*fakeResourceShare{},
		zones:                map[string]*fakeZone{},
		authorizations:       map[string]bool{},
	}
}

// ClientSet returns the clients of one simulated account, e.g. "hub".
func (c *Cloud) ClientSet(account string) *awsprovider.ClientSet {
	return &awsprovider.ClientSet{
		EC2:            &ec2Client{cloud: c, account: account},
		CloudFormation: &cloudFormationClient{cloud: c, account: account},
		Lattice:        &latticeClient{cloud: c, account: account},
		RAM:            &ramClient{cloud: c, account: account},
		Route53:        &route53Client{cloud: c, account: account},
		STS:            &stsClient{cloud: c, account: account},
	}
}

// AccountNumber maps an account label to the twelve-digit number its STS
// client reports.
func AccountNumber(account string) string {
	return fmt.Sprintf("%012d", len(account)*111111111)
}

func (c *Cloud) record(account, service, op string) {
	c.calls = append(c.calls, Call{Account: account, Service: service, Op: op})
}

// Calls returns every recorded API call in order.
func (c *Cloud) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Call, len(c.calls))
	copy(result, c.calls)

	return result
}

// CountOp returns how often the given operation was called, in any account.
func (c *Cloud) CountOp(op string) int {
	count := 0
	for _, call := range c.Calls() {
		if call.Op == op {
			count++
		}
	}

	return count
}

// FirstOpIndex returns the position of the first call of the given operation,
// or -1 if it never happened.
func (c *Cloud) FirstOpIndex(op string) int {
	for i, call := range c.Calls() {
		if call.Op == op {
			return i
		}
	}

	return -1
}

// LastOpIndex returns the position of the last call of the given operation,
// or -1 if it never happened.
func (c *Cloud) LastOpIndex(op string) int {
	index := -1
	for i, call := range c.Calls() {
		if call.Op == op {
			index = i
		}
	}

	return index
}

func (c *Cloud) newID(prefix string) string {
	c.nextID++
	return fmt.Sprintf("%s-%04d", prefix, c.nextID)
}

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func notFound(message string) error {
	return apiError("ResourceNotFoundException", message)
}
