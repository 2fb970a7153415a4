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

	"github.com/aws/aws-sdk-go-v2/service/vpclattice"
	latticetypes "github.com/aws/aws-sdk-go-v2/service/vpclattice/types"

	"k8s.io/utils/ptr"
)

type fakeServiceNetwork struct {
	id      string
	arn     string
	name    string
	account string
}

type fakeResourceGateway struct {
	id           string
	name         string
	vpcID        string
	pendingPolls int
}

type fakeResourceConfiguration struct {
	id           string
	name         string
	gatewayID    string
	pendingPolls int
}

type fakeResourceAssociation struct {
	id           string
	networkID    string
	configID     string
	pendingPolls int
}

type fakeVPCAssociation struct {
	id           string
	networkID    string
	vpcID        string
	account      string
	pendingPolls int
	failed       bool
}

type latticeClient struct {
	cloud   *Cloud
	account string
}

// findNetwork resolves a service network by ID or, as shared with spoke
// accounts, by ARN.
func (c *latticeClient) findNetwork(identifier string) *fakeServiceNetwork {
	for _, network := range c.cloud.networks {
		if network.id == identifier || network.arn == identifier {
			return network
		}
	}

	return nil
}

// isSharedWith reports whether the network's ARN has been shared with the
// given account through RAM.
func (c *Cloud) isSharedWith(arn, account string) bool {
	for _, share := range c.shares {
		for _, resource := range share.resourceARNs {
			if resource != arn {
				continue
			}
			for _, principal := range share.principals {
				if principal == AccountNumber(account) {
					return true
				}
			}
		}
	}

	return false
}

func (c *latticeClient) CreateServiceNetwork(ctx context.Context, params *vpclattice.CreateServiceNetworkInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "CreateServiceNetwork")

	network := &fakeServiceNetwork{
		id:      c.cloud.newID("sn"),
		name:    ptr.Deref(params.Name, ""),
		account: c.account,
	}
	network.arn = fmt.Sprintf("arn:aws:vpc-lattice:eu-west-1:%s:servicenetwork/%s", AccountNumber(c.account), network.id)
	c.cloud.networks[network.id] = network

	return &vpclattice.CreateServiceNetworkOutput{
		Id:   ptr.To(network.id),
		Arn:  ptr.To(network.arn),
		Name: params.Name,
	}, nil
}

func (c *latticeClient) ListServiceNetworks(ctx context.Context, params *vpclattice.ListServiceNetworksInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworksOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "ListServiceNetworks")

	var items []latticetypes.ServiceNetworkSummary
	for _, network := range c.cloud.networks {
		if network.account != c.account && !c.cloud.isSharedWith(network.arn, c.account) {
			continue
		}

		items = append(items, latticetypes.ServiceNetworkSummary{
			Id:   ptr.To(network.id),
			Arn:  ptr.To(network.arn),
			Name: ptr.To(network.name),
		})
	}

	return &vpclattice.ListServiceNetworksOutput{Items: items}, nil
}

func (c *latticeClient) DeleteServiceNetwork(ctx context.Context, params *vpclattice.DeleteServiceNetworkInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "DeleteServiceNetwork")

	network := c.findNetwork(ptr.Deref(params.ServiceNetworkIdentifier, ""))
	if network == nil {
		return nil, notFound("service network not found")
	}

	for _, association := range c.cloud.vpcAssociations {
		if association.networkID == network.id {
			return nil, apiError("ConflictException", "service network still has VPC associations")
		}
	}
	for _, association := range c.cloud.resourceAssociations {
		if association.networkID == network.id {
			return nil, apiError("ConflictException", "service network still has resource associations")
		}
	}

	delete(c.cloud.networks, network.id)

	return &vpclattice.DeleteServiceNetworkOutput{}, nil
}

func (c *latticeClient) CreateResourceGateway(ctx context.Context, params *vpclattice.CreateResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateResourceGatewayOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "CreateResourceGateway")

	gateway := &fakeResourceGateway{
		id:           c.cloud.newID("rgw"),
		name:         ptr.Deref(params.Name, ""),
		vpcID:        ptr.Deref(params.VpcIdentifier, ""),
		pendingPolls: c.cloud.GatewayActiveAfter,
	}
	c.cloud.gateways[gateway.id] = gateway

	return &vpclattice.CreateResourceGatewayOutput{
		Id:     ptr.To(gateway.id),
		Name:   params.Name,
		Status: latticetypes.ResourceGatewayStatusCreateInProgress,
	}, nil
}

func (c *latticeClient) GetResourceGateway(ctx context.Context, params *vpclattice.GetResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetResourceGatewayOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "GetResourceGateway")

	gateway, ok := c.cloud.gateways[ptr.Deref(params.ResourceGatewayIdentifier, "")]
	if !ok {
		return nil, notFound("resource gateway not found")
	}

	status := latticetypes.ResourceGatewayStatusActive
	if gateway.pendingPolls > 0 {
		gateway.pendingPolls--
		status = latticetypes.ResourceGatewayStatusCreateInProgress
	}

	return &vpclattice.GetResourceGatewayOutput{
		Id:     ptr.To(gateway.id),
		Name:   ptr.To(gateway.name),
		Status: status,
	}, nil
}

func (c *latticeClient) ListResourceGateways(ctx context.Context, params *vpclattice.ListResourceGatewaysInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListResourceGatewaysOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "ListResourceGateways")

	var items []latticetypes.ResourceGatewaySummary
	for _, gateway := range c.cloud.gateways {
		status := latticetypes.ResourceGatewayStatusActive
		if gateway.pendingPolls > 0 {
			status = latticetypes.ResourceGatewayStatusCreateInProgress
		}

		items = append(items, latticetypes.ResourceGatewaySummary{
			Id:     ptr.To(gateway.id),
			Name:   ptr.To(gateway.name),
			Status: status,
		})
	}

	return &vpclattice.ListResourceGatewaysOutput{Items: items}, nil
}

func (c *latticeClient) DeleteResourceGateway(ctx context.Context, params *vpclattice.DeleteResourceGatewayInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteResourceGatewayOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "DeleteResourceGateway")

	id := ptr.Deref(params.ResourceGatewayIdentifier, "")
	if _, ok := c.cloud.gateways[id]; !ok {
		return nil, notFound("resource gateway not found")
	}

	for _, configuration := range c.cloud.configurations {
		if configuration.gatewayID == id {
			return nil, apiError("ConflictException", "resource gateway still has resource configurations")
		}
	}

	delete(c.cloud.gateways, id)

	return &vpclattice.DeleteResourceGatewayOutput{}, nil
}

func (c *latticeClient) CreateResourceConfiguration(ctx context.Context, params *vpclattice.CreateResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateResourceConfigurationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "CreateResourceConfiguration")

	if _, ok := params.ResourceConfigurationDefinition.(*latticetypes.ResourceConfigurationDefinitionMemberDnsResource); !ok {
		return nil, apiError("ValidationException", "only DNS resource configurations are supported")
	}

	configuration := &fakeResourceConfiguration{
		id:           c.cloud.newID("rcfg"),
		name:         ptr.Deref(params.Name, ""),
		gatewayID:    ptr.Deref(params.ResourceGatewayIdentifier, ""),
		pendingPolls: c.cloud.ResourceConfigActiveAfter,
	}
	c.cloud.configurations[configuration.id] = configuration

	return &vpclattice.CreateResourceConfigurationOutput{
		Id:     ptr.To(configuration.id),
		Name:   params.Name,
		Status: latticetypes.ResourceConfigurationStatusCreateInProgress,
	}, nil
}

func (c *latticeClient) GetResourceConfiguration(ctx context.Context, params *vpclattice.GetResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetResourceConfigurationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "GetResourceConfiguration")

	configuration, ok := c.cloud.configurations[ptr.Deref(params.ResourceConfigurationIdentifier, "")]
	if !ok {
		return nil, notFound("resource configuration not found")
	}

	status := latticetypes.ResourceConfigurationStatusActive
	if c.cloud.ResourceConfigStuck {
		status = latticetypes.ResourceConfigurationStatusCreateInProgress
	} else if configuration.pendingPolls > 0 {
		configuration.pendingPolls--
		status = latticetypes.ResourceConfigurationStatusCreateInProgress
	}

	return &vpclattice.GetResourceConfigurationOutput{
		Id:     ptr.To(configuration.id),
		Name:   ptr.To(configuration.name),
		Status: status,
	}, nil
}

func (c *latticeClient) ListResourceConfigurations(ctx context.Context, params *vpclattice.ListResourceConfigurationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListResourceConfigurationsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "ListResourceConfigurations")

	var items []latticetypes.ResourceConfigurationSummary
	for _, configuration := range c.cloud.configurations {
		status := latticetypes.ResourceConfigurationStatusActive
		if c.cloud.ResourceConfigStuck || configuration.pendingPolls > 0 {
			status = latticetypes.ResourceConfigurationStatusCreateInProgress
		}

		items = append(items, latticetypes.ResourceConfigurationSummary{
			Id:     ptr.To(configuration.id),
			Name:   ptr.To(configuration.name),
			Status: status,
		})
	}

	return &vpclattice.ListResourceConfigurationsOutput{Items: items}, nil
}

func (c *latticeClient) DeleteResourceConfiguration(ctx context.Context, params *vpclattice.DeleteResourceConfigurationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteResourceConfigurationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "DeleteResourceConfiguration")

	id := ptr.Deref(params.ResourceConfigurationIdentifier, "")
	if _, ok := c.cloud.configurations[id]; !ok {
		return nil, notFound("resource configuration not found")
	}

	for _, association := range c.cloud.resourceAssociations {
		if association.configID == id {
			return nil, apiError("ConflictException", "resource configuration is still associated")
		}
	}

	delete(c.cloud.configurations, id)

	return &vpclattice.DeleteResourceConfigurationOutput{}, nil
}

func (c *latticeClient) CreateServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.CreateServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkResourceAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "CreateServiceNetworkResourceAssociation")

	if c.cloud.AssociationThrottles != 0 {
		if c.cloud.AssociationThrottles > 0 {
			c.cloud.AssociationThrottles--
		}
		return nil, apiError("ThrottlingException", "rate exceeded")
	}

	network := c.findNetwork(ptr.Deref(params.ServiceNetworkIdentifier, ""))
	if network == nil {
		return nil, notFound("service network not found")
	}

	configID := ptr.Deref(params.ResourceConfigurationIdentifier, "")
	if _, ok := c.cloud.configurations[configID]; !ok {
		return nil, notFound("resource configuration not found")
	}

	association := &fakeResourceAssociation{
		id:           c.cloud.newID("snra"),
		networkID:    network.id,
		configID:     configID,
		pendingPolls: c.cloud.ResourceAssociationActiveAfter,
	}
	c.cloud.resourceAssociations[association.id] = association

	return &vpclattice.CreateServiceNetworkResourceAssociationOutput{
		Id:     ptr.To(association.id),
		Status: latticetypes.ServiceNetworkResourceAssociationStatusCreateInProgress,
	}, nil
}

func (c *latticeClient) GetServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.GetServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetServiceNetworkResourceAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "GetServiceNetworkResourceAssociation")

	association, ok := c.cloud.resourceAssociations[ptr.Deref(params.ServiceNetworkResourceAssociationIdentifier, "")]
	if !ok {
		return nil, notFound("resource association not found")
	}

	status := latticetypes.ServiceNetworkResourceAssociationStatusActive
	if association.pendingPolls > 0 {
		association.pendingPolls--
		status = latticetypes.ServiceNetworkResourceAssociationStatusCreateInProgress
	}

	out := &vpclattice.GetServiceNetworkResourceAssociationOutput{
		Id:     ptr.To(association.id),
		Status: status,
	}
	if status == latticetypes.ServiceNetworkResourceAssociationStatusActive {
		out.DnsEntry = &latticetypes.DnsEntry{
			DomainName: ptr.To(fmt.Sprintf("%s.%s.vpc-lattice-rsc.eu-west-1.on.aws", association.configID, association.networkID)),
		}
	}

	return out, nil
}

func (c *latticeClient) ListServiceNetworkResourceAssociations(ctx context.Context, params *vpclattice.ListServiceNetworkResourceAssociationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworkResourceAssociationsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "ListServiceNetworkResourceAssociations")

	var network *fakeServiceNetwork
	if identifier := ptr.Deref(params.ServiceNetworkIdentifier, ""); identifier != "" {
		network = c.findNetwork(identifier)
		if network == nil {
			return &vpclattice.ListServiceNetworkResourceAssociationsOutput{}, nil
		}
	}

	var items []latticetypes.ServiceNetworkResourceAssociationSummary
	for _, association := range c.cloud.resourceAssociations {
		if network != nil && association.networkID != network.id {
			continue
		}
		if configID := ptr.Deref(params.ResourceConfigurationIdentifier, ""); configID != "" && association.configID != configID {
			continue
		}

		status := latticetypes.ServiceNetworkResourceAssociationStatusActive
		if association.pendingPolls > 0 {
			status = latticetypes.ServiceNetworkResourceAssociationStatusCreateInProgress
		}

		items = append(items, latticetypes.ServiceNetworkResourceAssociationSummary{
			Id:     ptr.To(association.id),
			Status: status,
		})
	}

	return &vpclattice.ListServiceNetworkResourceAssociationsOutput{Items: items}, nil
}

func (c *latticeClient) DeleteServiceNetworkResourceAssociation(ctx context.Context, params *vpclattice.DeleteServiceNetworkResourceAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkResourceAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "DeleteServiceNetworkResourceAssociation")

	id := ptr.Deref(params.ServiceNetworkResourceAssociationIdentifier, "")
	if _, ok := c.cloud.resourceAssociations[id]; !ok {
		return nil, notFound("resource association not found")
	}

	delete(c.cloud.resourceAssociations, id)

	return &vpclattice.DeleteServiceNetworkResourceAssociationOutput{}, nil
}

func (c *latticeClient) CreateServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.CreateServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.CreateServiceNetworkVpcAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "CreateServiceNetworkVpcAssociation")

	network := c.findNetwork(ptr.Deref(params.ServiceNetworkIdentifier, ""))
	if network == nil {
		return nil, notFound("service network not found")
	}

	// foreign accounts may only associate through a RAM share
	if network.account != c.account && !c.cloud.isSharedWith(network.arn, c.account) {
		return nil, apiError("AccessDeniedException", "service network is not shared with this account")
	}

	association := &fakeVPCAssociation{
		id:           c.cloud.newID("snva"),
		networkID:    network.id,
		vpcID:        ptr.Deref(params.VpcIdentifier, ""),
		account:      c.account,
		pendingPolls: c.cloud.VPCAssociationActiveAfter,
		failed:       c.cloud.VPCAssociationFails,
	}
	c.cloud.vpcAssociations[association.id] = association

	return &vpclattice.CreateServiceNetworkVpcAssociationOutput{
		Id:     ptr.To(association.id),
		Status: latticetypes.ServiceNetworkVpcAssociationStatusCreateInProgress,
	}, nil
}

func (c *Cloud) vpcAssociationStatus(association *fakeVPCAssociation, decrement bool) latticetypes.ServiceNetworkVpcAssociationStatus {
	if association.failed {
		return latticetypes.ServiceNetworkVpcAssociationStatusCreateFailed
	}
	if association.pendingPolls > 0 {
		if decrement {
			association.pendingPolls--
		}
		return latticetypes.ServiceNetworkVpcAssociationStatusCreateInProgress
	}

	return latticetypes.ServiceNetworkVpcAssociationStatusActive
}

func (c *latticeClient) GetServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.GetServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.GetServiceNetworkVpcAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "GetServiceNetworkVpcAssociation")

	association, ok := c.cloud.vpcAssociations[ptr.Deref(params.ServiceNetworkVpcAssociationIdentifier, "")]
	if !ok {
		return nil, notFound("VPC association not found")
	}

	return &vpclattice.GetServiceNetworkVpcAssociationOutput{
		Id:     ptr.To(association.id),
		Status: c.cloud.vpcAssociationStatus(association, true),
	}, nil
}

func (c *latticeClient) ListServiceNetworkVpcAssociations(ctx context.Context, params *vpclattice.ListServiceNetworkVpcAssociationsInput, optFns ...func(*vpclattice.Options)) (*vpclattice.ListServiceNetworkVpcAssociationsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "ListServiceNetworkVpcAssociations")

	var network *fakeServiceNetwork
	if identifier := ptr.Deref(params.ServiceNetworkIdentifier, ""); identifier != "" {
		network = c.findNetwork(identifier)
		if network == nil {
			return &vpclattice.ListServiceNetworkVpcAssociationsOutput{}, nil
		}
	}

	var items []latticetypes.ServiceNetworkVpcAssociationSummary
	for _, association := range c.cloud.vpcAssociations {
		if network != nil && association.networkID != network.id {
			continue
		}
		if vpcID := ptr.Deref(params.VpcIdentifier, ""); vpcID != "" && association.vpcID != vpcID {
			continue
		}

		items = append(items, latticetypes.ServiceNetworkVpcAssociationSummary{
			Id:     ptr.To(association.id),
			Status: c.cloud.vpcAssociationStatus(association, false),
		})
	}

	return &vpclattice.ListServiceNetworkVpcAssociationsOutput{Items: items}, nil
}

func (c *latticeClient) DeleteServiceNetworkVpcAssociation(ctx context.Context, params *vpclattice.DeleteServiceNetworkVpcAssociationInput, optFns ...func(*vpclattice.Options)) (*vpclattice.DeleteServiceNetworkVpcAssociationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "vpclattice", "DeleteServiceNetworkVpcAssociation")

	id := ptr.Deref(params.ServiceNetworkVpcAssociationIdentifier, "")
	if _, ok := c.cloud.vpcAssociations[id]; !ok {
		return nil, notFound("VPC association not found")
	}

	delete(c.cloud.vpcAssociations, id)

	return &vpclattice.DeleteServiceNetworkVpcAssociationOutput{}, nil
}
