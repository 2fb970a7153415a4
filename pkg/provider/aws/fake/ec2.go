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

package fake

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"k8s.io/utils/ptr"
)

type fakeEndpoint struct {
	id           string
	account      string
	vpcID        string
	serviceName  string
	endpointType ec2types.VpcEndpointType
	state        ec2types.State
	nameTag      string
}

type ec2Client struct {
	cloud   *Cloud
	account string
}

func (c *ec2Client) toAPI(endpoint *fakeEndpoint) ec2types.VpcEndpoint {
	result := ec2types.VpcEndpoint{
		VpcEndpointId:   ptr.To(endpoint.id),
		VpcId:           ptr.To(endpoint.vpcID),
		ServiceName:     ptr.To(endpoint.serviceName),
		VpcEndpointType: endpoint.endpointType,
		State:           endpoint.state,
		Tags: []ec2types.Tag{{
			Key:   ptr.To("Name"),
			Value: ptr.To(endpoint.nameTag),
		}},
	}

	if endpoint.endpointType == ec2types.VpcEndpointTypeInterface {
		result.DnsEntries = []ec2types.DnsEntry{
			{DnsName: ptr.To(fmt.Sprintf("%s.vpce.amazonaws.com", endpoint.id))},
			{DnsName: ptr.To(fmt.Sprintf("%s-az1.vpce.amazonaws.com", endpoint.id))},
		}
	}

	return result
}

func (c *ec2Client) CreateVpcEndpoint(ctx context.Context, params *ec2.CreateVpcEndpointInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ec2", "CreateVpcEndpoint")

	nameTag := ""
	for _, spec := range params.TagSpecifications {
		for _, tag := range spec.Tags {
			if ptr.Deref(tag.Key, "") == "Name" {
				nameTag = ptr.Deref(tag.Value, "")
			}
		}
	}

	endpoint := &fakeEndpoint{
		id:           c.cloud.newID("vpce"),
		account:      c.account,
		vpcID:        ptr.Deref(params.VpcId, ""),
		serviceName:  ptr.Deref(params.ServiceName, ""),
		endpointType: params.VpcEndpointType,
		state:        ec2types.StateAvailable,
		nameTag:      nameTag,
	}
	c.cloud.endpoints[endpoint.id] = endpoint

	api := c.toAPI(endpoint)

	return &ec2.CreateVpcEndpointOutput{VpcEndpoint: &api}, nil
}

func (c *ec2Client) DescribeVpcEndpoints(ctx context.Context, params *ec2.DescribeVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ec2", "DescribeVpcEndpoints")

	var result []ec2types.VpcEndpoint

	for _, endpoint := range c.cloud.endpoints {
		if endpoint.account != c.account {
			continue
		}
		if !matchesFilters(endpoint, params.Filters) {
			continue
		}

		result = append(result, c.toAPI(endpoint))
	}

	return &ec2.DescribeVpcEndpointsOutput{VpcEndpoints: result}, nil
}

func matchesFilters(endpoint *fakeEndpoint, filters []ec2types.Filter) bool {
	for _, filter := range filters {
		value := ""
		switch ptr.Deref(filter.Name, "") {
		case "vpc-id":
			value = endpoint.vpcID
		case "service-name":
			value = endpoint.serviceName
		default:
			return false
		}

		matched := false
		for _, candidate := range filter.Values {
			if candidate == value {
				matched = true
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func (c *ec2Client) DeleteVpcEndpoints(ctx context.Context, params *ec2.DeleteVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcEndpointsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ec2", "DeleteVpcEndpoints")

	for _, id := range params.VpcEndpointIds {
		delete(c.cloud.endpoints, id)
	}

	return &ec2.DeleteVpcEndpointsOutput{}, nil
}
