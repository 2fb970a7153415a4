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

package aws

import (
	"testing"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"k8s.io/utils/ptr"
)

func TestEndpointDNSName(t *testing.T) {
	testcases := []struct {
		name      string
		endpoint  *ec2types.VpcEndpoint
		expected  string
		expectErr bool
	}{
		{
			name:      "nil endpoint",
			endpoint:  nil,
			expectErr: true,
		},
		{
			name: "endpoint without DNS entries",
			endpoint: &ec2types.VpcEndpoint{
				VpcEndpointId: ptr.To("vpce-0001"),
			},
			expectErr: true,
		},
		{
			name: "regional name comes first",
			endpoint: &ec2types.VpcEndpoint{
				VpcEndpointId: ptr.To("vpce-0001"),
				DnsEntries: []ec2types.DnsEntry{
					{DnsName: ptr.To("vpce-0001.ssm.eu-west-1.vpce.amazonaws.com")},
					{DnsName: ptr.To("vpce-0001-eu-west-1a.ssm.eu-west-1.vpce.amazonaws.com")},
				},
			},
			expected: "vpce-0001.ssm.eu-west-1.vpce.amazonaws.com",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			dnsName, err := EndpointDNSName(testcase.endpoint)
			if testcase.expectErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if dnsName != testcase.expected {
				t.Errorf("expected %q, got %q", testcase.expected, dnsName)
			}
		})
	}
}
