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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ram"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/vpclattice"
)

// The interfaces below describe the subset of each AWS service client that
// this tool actually calls. Tests implement them with in-memory fakes.

type EC2Client interface {
	CreateVpcEndpoint(ctx context.Context, params *ec2.CreateVpcEndpointInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error)
	DescribeVpcEndpoints(ctx context.Context, params *ec2.DescribeVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error)
	DeleteVpcEndpoints(ctx context.Context, params *ec2.DeleteVpcEndpointsInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVpcEndpointsOutput, error)
}

type CloudFormationClient interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	ListStacks(ctx context.Context, params *cloudformation.ListStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error)
}

type LatticeClient interface {
	CreateServiceNetwork(ctx context.Context, params *vpclattice.CreateServiceNetworkInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkOutput, error)
	ListServiceNetworks(ctx context.Context, params *vpclattice.ListServiceNetworksInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworksOutput, error)
	DeleteServiceNetwork(ctx context.Context, params *vpclattice.DeleteServiceNetworkInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkOutput, error)

	CreateResourceGateway(ctx context.Context, params *vpclattice.CreateResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateResourceGatewayOutput, error)
	GetResourceGateway(ctx context.Context, params *vpclattice.GetResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetResourceGatewayOutput, error)
	ListResourceGateways(ctx context.Context, params *vpclattice.ListResourceGatewaysInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListResourceGatewaysOutput, error)
	DeleteResourceGateway(ctx context.Context, params *vpclattice.DeleteResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteResourceGatewayOutput, error)

	CreateResourceConfiguration(ctx context.Context, params *vpclattice.CreateResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateResourceConfigurationOutput, error)
	GetResourceConfiguration(ctx context.Context, params *vpclattice.GetResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetResourceConfigurationOutput, error)
	ListResourceConfigurations(ctx context.Context, params *vpclattice.ListResourceConfigurationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListResourceConfigurationsOutput, error)
	DeleteResourceConfiguration(ctx context.Context, params *vpclattice.DeleteResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteResourceConfigurationOutput, error)

	CreateServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.CreateServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkResourceAssociationOutput, error)
	GetServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.GetServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetServiceNetworkResourceAssociationOutput, error)
	ListServiceNetworkResourceAssociations(ctx context.Context, params *vpclattice.ListServiceNetworkResourceAssociationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworkResourceAssociationsOutput, error)
	DeleteServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.DeleteServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkResourceAssociationOutput, error)

	CreateServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.CreateServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkVpcAssociationOutput, error)
	GetServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.GetServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetServiceNetworkVpcAssociationOutput, error)
	ListServiceNetworkVpcAssociations(ctx context.Context, params *vpclattice.ListServiceNetworkVpcAssociationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworkVpcAssociationsOutput, error)
	DeleteServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.DeleteServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkVpcAssociationOutput, error)
}

type RAMClient interface {
	CreateResourceShare(ctx context.Context, params *ram.CreateResourceShareInput, optFns ...func(*ram.Options)) (*ram.CreateResourceShareOutput, error)
	GetResourceShares(ctx context.Context, params *ram.GetResourceSharesInput, optFns ...func(*ram.Options)) (*ram.GetResourceSharesOutput, error)
	DeleteResourceShare(ctx context.Context, params *ram.DeleteResourceShareInput, optFns ...func(*ram.Options)) (*ram.DeleteResourceShareOutput, error)
}

type Route53Client interface {
	CreateHostedZone(ctx context.Context, params *route53.CreateHostedZoneInput, optFns ...func(*route53.Options)) (*route53.CreateHostedZoneOutput, error)
	ListHostedZonesByName(ctx context.Context, params *route53.ListHostedZonesByNameInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error)
	GetHostedZone(ctx context.Context, params *route53.GetHostedZoneInput, optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error)
	DeleteHostedZone(ctx context.Context, params *route53.DeleteHostedZoneInput, optFns ...func(*route53.Options)) (*route53.DeleteHostedZoneOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	CreateVPCAssociationAuthorization(ctx context.Context, params *route53.CreateVPCAssociationAuthorizationInput, optFns ...func(*route53.Options)) (*route53.CreateVPCAssociationAuthorizationOutput, error)
	DeleteVPCAssociationAuthorization(ctx context.Context, params *route53.DeleteVPCAssociationAuthorizationInput, optFns ...func(*route53.Options)) (*route53.DeleteVPCAssociationAuthorizationOutput, error)
	AssociateVPCWithHostedZone(ctx context.Context, params *route53.AssociateVPCWithHostedZoneInput, optFns ...func(*route53.Options)) (*route53.AssociateVPCWithHostedZoneOutput, error)
	DisassociateVPCFromHostedZone(ctx context.Context, params *route53.DisassociateVPCFromHostedZoneInput, optFns ...func(*route53.Options)) (*route53.DisassociateVPCFromHostedZoneOutput, error)
}

type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientSet bundles the per-service clients for one AWS account.
type ClientSet struct {
	EC2            EC2Client
	CloudFormation CloudFormationClient
	Lattice        LatticeClient
	RAM            RAMClient
	Route53        Route53Client
	STS            STSClient
}

// GetClientSet builds a ClientSet from a named shared-config profile.
func GetClientSet(ctx context.Context, region, profile string) (*ClientSet, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithSharedConfigProfile(profile),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration for profile %q: %w", profile, err)
	}

	return &ClientSet{
		EC2:            ec2.NewFromConfig(cfg),
		CloudFormation: cloudformation.NewFromConfig(cfg),
		Lattice:        vpclattice.NewFromConfig(cfg),
		RAM:            ram.NewFromConfig(cfg),
		Route53:        route53.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
	}, nil
}

// GetClientSetWithKeys builds a ClientSet from static credentials.
func GetClientSetWithKeys(ctx context.Context, region, accessKeyID, secretAccessKey string) (*ClientSet, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &ClientSet{
		EC2:            ec2.NewFromConfig(cfg),
		CloudFormation: cloudformation.NewFromConfig(cfg),
		Lattice:        vpclattice.NewFromConfig(cfg),
		RAM:            ram.NewFromConfig(cfg),
		Route53:        route53.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
	}, nil
}

// AccountID resolves the account number behind the given client set.
func AccountID(ctx context.Context, client STSClient) (string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}

	if out.Account == nil {
		return "", fmt.Errorf("caller identity contains no account ID")
	}

	return *out.Account, nil
}
