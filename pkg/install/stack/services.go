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
	"fmt"
)

// EndpointService is one AWS service whose interface endpoint is centralized
// in the hub VPC.
type EndpointService struct {
	// Key is the service's short name, e.g. "ssm" or "ec2messages".
	Key string
}

// EndpointServices are the services required for Session-Manager-style
// access to instances without per-VPC endpoints.
var EndpointServices = []EndpointService{
	{Key: "ssm"},
	{Key: "ssmmessages"},
	{Key: "ec2messages"},
	{Key: "sts"},
}

// ServiceName returns the endpoint service name, e.g.
// "com.amazonaws.eu-central-1.ssm".
func (s EndpointService) ServiceName(region string) string {
	return fmt.Sprintf("com.amazonaws.%s.%s", region, s.Key)
}

// DomainName returns the public DNS name that the private hosted zone
// overrides, e.g. "ssm.eu-central-1.amazonaws.com".
func (s EndpointService) DomainName(region string) string {
	return fmt.Sprintf("%s.%s.amazonaws.com", s.Key, region)
}

// EndpointName returns the Name tag for the service's interface endpoint.
func (s EndpointService) EndpointName(prefix string) string {
	return fmt.Sprintf("%s-vpce-%s", prefix, s.Key)
}

// ResourceConfigurationName returns the name of the service's Lattice
// resource configuration.
func (s EndpointService) ResourceConfigurationName(prefix string) string {
	return fmt.Sprintf("%s-rcfg-%s", prefix, s.Key)
}
