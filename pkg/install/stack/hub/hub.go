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

// Package hub provisions the central account: the endpoint VPC, the
// centralized interface endpoints, the Lattice service network with its
// resource gateway and configurations, the cross-account share and the DNS
// override zones.
package hub

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/log"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

const httpsPort = int32(443)

type HubStack struct{}

var _ stack.Stack = &HubStack{}

func NewStack() *HubStack {
	return &HubStack{}
}

func (*HubStack) Name() string {
	return "hub"
}

// substrate holds the identifiers produced by the network substrate stack.
type substrate struct {
	vpcID           string
	subnetIDs       []string
	securityGroupID string
	routeTableID    string
}

func (*HubStack) Deploy(ctx context.Context, opt stack.DeployOptions) error {
	logger := opt.Logger
	outputs := state.New(opt.Prefix, opt.Region)

	sub, err := deployNetworkSubstrate(ctx, logger, opt)
	if err != nil {
		return fmt.Errorf("failed to deploy network substrate: %w", err)
	}
	outputs.HubVPCID = sub.vpcID

	if err := deployVPCEndpoints(ctx, logger, opt, sub, outputs); err != nil {
		return fmt.Errorf("failed to deploy VPC endpoints: %w", err)
	}

	network, err := deployServiceNetwork(ctx, logger, opt, sub, outputs)
	if err != nil {
		return fmt.Errorf("failed to deploy the service network: %w", err)
	}

	if err := deployResourceConfigurations(ctx, logger, opt, network, outputs); err != nil {
		return fmt.Errorf("failed to deploy resource configurations: %w", err)
	}

	if err := deployResourceShare(ctx, logger, opt, network); err != nil {
		return fmt.Errorf("failed to deploy the resource share: %w", err)
	}

	deployHubVPCAssociation(ctx, logger, opt, network, sub)

	if err := deployPrivateZones(ctx, logger, opt, sub, outputs); err != nil {
		return fmt.Errorf("failed to deploy the DNS override zones: %w", err)
	}

	if err := outputs.Save(opt.StateFile); err != nil {
		return err
	}
	logger.Infof("Wrote hub outputs to %s.", opt.StateFile)

	logger.Info("✅ Hub deployment complete.")

	return nil
}

func deployNetworkSubstrate(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions) (*substrate, error) {
	stackName := stack.HubNetworkStackName(opt.Prefix)

	logger.Infof("📦 Deploying network substrate stack %s…", stackName)
	sublogger := log.Prefix(logger, "   ")

	stackOutputs, err := awsprovider.ReconcileStack(ctx, sublogger, opt.Hub.CloudFormation, stackName, networkTemplate, map[string]string{
		"NamePrefix":  opt.Prefix,
		"Environment": "hub",
	}, opt.PollInterval, opt.PollTimeout)
	if err != nil {
		return nil, err
	}

	sub := &substrate{
		vpcID:           stackOutputs["VpcId"],
		subnetIDs:       strings.Split(stackOutputs["PrivateSubnetIds"], ","),
		securityGroupID: stackOutputs["SecurityGroupId"],
		routeTableID:    stackOutputs["RouteTableId"],
	}

	if sub.vpcID == "" || sub.securityGroupID == "" || len(sub.subnetIDs) == 0 {
		return nil, fmt.Errorf("stack %q does not provide the expected outputs", stackName)
	}

	return sub, nil
}

func deployVPCEndpoints(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, sub *substrate, outputs *state.Outputs) error {
	logger.Info("📦 Deploying VPC endpoints…")
	sublogger := log.Prefix(logger, "   ")

	for _, service := range stack.EndpointServices {
		serviceName := service.ServiceName(opt.Region)

		endpoint, err := awsprovider.ReconcileInterfaceEndpoint(ctx, sublogger, opt.Hub.EC2, sub.vpcID, serviceName, service.EndpointName(opt.Prefix), sub.subnetIDs, []string{sub.securityGroupID})
		if err != nil {
			return err
		}

		dnsName, err := awsprovider.EndpointDNSName(endpoint)
		if err != nil {
			return err
		}

		sublogger.Infof("Endpoint for %s resolves to %s.", service.Key, dnsName)

		serviceOutputs := outputs.Services[service.Key]
		serviceOutputs.EndpointDNS = dnsName
		outputs.Services[service.Key] = serviceOutputs
	}

	// S3 access (e.g. for patch baselines) goes through a gateway endpoint,
	// which is free and needs no centralization.
	s3Service := fmt.Sprintf("com.amazonaws.%s.s3", opt.Region)
	if _, err := awsprovider.ReconcileGatewayEndpoint(ctx, sublogger, opt.Hub.EC2, sub.vpcID, s3Service, stack.S3GatewayEndpointName(opt.Prefix), []string{sub.routeTableID}); err != nil {
		return err
	}

	return nil
}

func deployServiceNetwork(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, sub *substrate, outputs *state.Outputs) (*awsprovider.ServiceNetwork, error) {
	networkName := stack.ServiceNetworkName(opt.Prefix)

	logger.Infof("📦 Deploying service network %s…", networkName)
	sublogger := log.Prefix(logger, "   ")

	network, err := awsprovider.ReconcileServiceNetwork(ctx, sublogger, opt.Hub.Lattice, networkName)
	if err != nil {
		return nil, err
	}

	outputs.ServiceNetworkID = network.ID
	outputs.ServiceNetworkARN = network.ARN

	gatewayName := stack.ResourceGatewayName(opt.Prefix)

	logger.Infof("📦 Deploying resource gateway %s…", gatewayName)

	gatewayID, err := awsprovider.ReconcileResourceGateway(ctx, sublogger, opt.Hub.Lattice, gatewayName, sub.vpcID, sub.subnetIDs, []string{sub.securityGroupID}, opt.PollInterval, opt.PollTimeout)
	if err != nil {
		return nil, err
	}

	outputs.ResourceGatewayID = gatewayID

	return network, nil
}

func deployResourceConfigurations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, network *awsprovider.ServiceNetwork, outputs *state.Outputs) error {
	logger.Info("📦 Deploying resource configurations…")
	sublogger := log.Prefix(logger, "   ")

	for _, service := range stack.EndpointServices {
		serviceOutputs := outputs.Services[service.Key]
		configName := service.ResourceConfigurationName(opt.Prefix)

		// the configuration must be ACTIVE before it can be associated
		configID, err := awsprovider.ReconcileResourceConfiguration(ctx, sublogger, opt.Hub.Lattice, configName, outputs.ResourceGatewayID, serviceOutputs.EndpointDNS, httpsPort, opt.PollInterval, opt.PollTimeout)
		if err != nil {
			return err
		}

		latticeDNS, err := awsprovider.ReconcileResourceAssociation(ctx, sublogger, opt.Hub.Lattice, network.ID, configID, opt.RetryDelay, opt.PollInterval, opt.PollTimeout)
		if err != nil {
			return err
		}

		sublogger.Infof("Lattice DNS name for %s is %s.", service.Key, latticeDNS)

		serviceOutputs.ResourceConfigurationID = configID
		serviceOutputs.LatticeDNS = latticeDNS
		outputs.Services[service.Key] = serviceOutputs
	}

	return nil
}

func deployResourceShare(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, network *awsprovider.ServiceNetwork) error {
	shareName := stack.ResourceShareName(opt.Prefix)

	logger.Infof("📦 Deploying resource share %s…", shareName)
	sublogger := log.Prefix(logger, "   ")

	var principals []string
	for _, spoke := range []*awsprovider.ClientSet{opt.SpokeDev, opt.SpokeTest} {
		account, err := awsprovider.AccountID(ctx, spoke.STS)
		if err != nil {
			return err
		}
		principals = append(principals, account)
	}

	if _, err := awsprovider.ReconcileResourceShare(ctx, sublogger, opt.Hub.RAM, shareName, network.ARN, principals); err != nil {
		return err
	}

	return nil
}

// deployHubVPCAssociation joins the hub's own VPC to the service network so
// instances in the hub can use the centralized endpoints too. The hub works
// without it, so a failure only warns.
func deployHubVPCAssociation(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, network *awsprovider.ServiceNetwork, sub *substrate) {
	logger.Info("📦 Associating the hub VPC with the service network…")
	sublogger := log.Prefix(logger, "   ")

	if _, err := awsprovider.ReconcileVPCAssociation(ctx, sublogger, opt.Hub.Lattice, network.ID, sub.vpcID, []string{sub.securityGroupID}, opt.PollInterval, opt.PollTimeout); err != nil {
		logger.Warnf("Failed to associate the hub VPC with the service network: %v", err)
		logger.Warn("Instances in the hub VPC will not be able to use the centralized endpoints.")
	}
}

func deployPrivateZones(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, sub *substrate, outputs *state.Outputs) error {
	logger.Info("📦 Deploying DNS override zones…")
	sublogger := log.Prefix(logger, "   ")

	for _, service := range stack.EndpointServices {
		serviceOutputs := outputs.Services[service.Key]
		domain := service.DomainName(opt.Region)

		zoneID, err := awsprovider.ReconcilePrivateZone(ctx, sublogger, opt.Hub.Route53, domain, sub.vpcID, opt.Region)
		if err != nil {
			return err
		}

		if err := awsprovider.UpsertCNAME(ctx, opt.Hub.Route53, zoneID, domain, serviceOutputs.LatticeDNS); err != nil {
			sublogger.Warnf("Failed to upsert the CNAME for %s: %v", domain, err)
			sublogger.Warnf("Point %s at %s manually.", domain, serviceOutputs.LatticeDNS)
		}

		serviceOutputs.HostedZoneID = zoneID
		outputs.Services[service.Key] = serviceOutputs
	}

	return nil
}
