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
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/sirupsen/logrus"

	"k8s.io/utils/ptr"
)

func ec2VPCFilter(vpcID string) ec2types.Filter {
	return ec2types.Filter{
		Name:   ptr.To("vpc-id"),
		Values: []string{vpcID},
	}
}

// FindVpcEndpoint returns the endpoint for the given service inside the given
// VPC, or nil if none exists.
func FindVpcEndpoint(ctx context.Context, client EC2Client, vpcID, serviceName string) (*ec2types.VpcEndpoint, error) {
	out, err := client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
		Filters: []ec2types.Filter{
			ec2VPCFilter(vpcID),
			{
				Name:   ptr.To("service-name"),
				Values: []string{serviceName},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list VPC endpoints: %w", err)
	}

	for i, endpoint := range out.VpcEndpoints {
		if endpoint.State != ec2types.StateDeleted && endpoint.State != ec2types.StateDeleting {
			return &out.VpcEndpoints[i], nil
		}
	}

	return nil, nil
}

// ReconcileInterfaceEndpoint ensures an interface endpoint for the given
// service exists in the VPC. Private DNS stays disabled because name
// resolution is overridden by the private hosted zones instead.
func ReconcileInterfaceEndpoint(ctx context.Context, logger logrus.FieldLogger, client EC2Client, vpcID, serviceName, name string, subnetIDs, securityGroupIDs []string) (*ec2types.VpcEndpoint, error) {
	endpoint, err := FindVpcEndpoint(ctx, client, vpcID, serviceName)
	if err != nil {
		return nil, err
	}

	if endpoint != nil {
		logger.Debugf("Endpoint for %s already exists, reusing it.", serviceName)
		return endpoint, nil
	}

	out, err := client.CreateVpcEndpoint(ctx, &ec2.CreateVpcEndpointInput{
		VpcId:             ptr.To(vpcID),
		ServiceName:       ptr.To(serviceName),
		VpcEndpointType:   ec2types.VpcEndpointTypeInterface,
		SubnetIds:         subnetIDs,
		SecurityGroupIds:  securityGroupIDs,
		PrivateDnsEnabled: ptr.To(false),
		TagSpecifications: []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeVpcEndpoint,
			Tags: []ec2types.Tag{{
				Key:   ptr.To("Name"),
				Value: ptr.To(name),
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create endpoint for %s: %w", serviceName, err)
	}

	return out.VpcEndpoint, nil
}

// ReconcileGatewayEndpoint ensures a gateway endpoint (e.g. for S3) exists in
// the VPC.
func ReconcileGatewayEndpoint(ctx context.Context, logger logrus.FieldLogger, client EC2Client, vpcID, serviceName, name string, routeTableIDs []string) (*ec2types.VpcEndpoint, error) {
	endpoint, err := FindVpcEndpoint(ctx, client, vpcID, serviceName)
	if err != nil {
		return nil, err
	}

	if endpoint != nil {
		logger.Debugf("Endpoint for %s already exists, reusing it.", serviceName)
		return endpoint, nil
	}

	out, err := client.CreateVpcEndpoint(ctx, &ec2.CreateVpcEndpointInput{
		VpcId:           ptr.To(vpcID),
		ServiceName:     ptr.To(serviceName),
		VpcEndpointType: ec2types.VpcEndpointTypeGateway,
		RouteTableIds:   routeTableIDs,
		TagSpecifications: []ec2types.TagSpecification{{
			ResourceType: ec2types.ResourceTypeVpcEndpoint,
			Tags: []ec2types.Tag{{
				Key:   ptr.To("Name"),
				Value: ptr.To(name),
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create endpoint for %s: %w", serviceName, err)
	}

	return out.VpcEndpoint, nil
}

// EndpointDNSName returns the regional DNS name of an interface endpoint.
// The first DNS entry is the regional one, followed by the per-AZ names.
func EndpointDNSName(endpoint *ec2types.VpcEndpoint) (string, error) {
	if endpoint == nil {
		return "", fmt.Errorf("no endpoint given")
	}
	if len(endpoint.DnsEntries) == 0 {
		return "", fmt.Errorf("endpoint %s has no DNS entries", ptr.Deref(endpoint.VpcEndpointId, ""))
	}

	return ptr.Deref(endpoint.DnsEntries[0].DnsName, ""), nil
}

// DeleteVpcEndpoints removes all endpoints in the given VPC.
func DeleteVpcEndpoints(ctx context.Context, client EC2Client, vpcID string) ([]string, error) {
	out, err := client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
		Filters: []ec2types.Filter{ec2VPCFilter(vpcID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list VPC endpoints: %w", err)
	}

	var ids []string
	for _, endpoint := range out.VpcEndpoints {
		if endpoint.State == ec2types.StateDeleted || endpoint.State == ec2types.StateDeleting {
			continue
		}
		ids = append(ids, ptr.Deref(endpoint.VpcEndpointId, ""))
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := client.DeleteVpcEndpoints(ctx, &ec2.DeleteVpcEndpointsInput{VpcEndpointIds: ids}); err != nil {
		return ids, fmt.Errorf("failed to delete VPC endpoints: %w", err)
	}

	return ids, nil
}

// ListVpcEndpointsByPrefix returns all endpoints whose Name tag contains the
// given substring.
func ListVpcEndpointsByPrefix(ctx context.Context, client EC2Client, prefix string) ([]ec2types.VpcEndpoint, error) {
	out, err := client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list VPC endpoints: %w", err)
	}

	var result []ec2types.VpcEndpoint
	for _, endpoint := range out.VpcEndpoints {
		for _, tag := range endpoint.Tags {
			if ptr.Deref(tag.Key, "") == "Name" && nameContains(tag.Value, prefix) {
				result = append(result, endpoint)
				break
			}
		}
	}

	return result, nil
}
