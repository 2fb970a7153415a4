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
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/log"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

// CleanUp removes everything the hub deployment created. Failures are
// recorded in the report instead of aborting, so a partially failed teardown
// still removes as much as it can. Resources must go in reverse dependency
// order regardless: the share before the associations, the associations
// before the configurations, the gateway and network last among the Lattice
// resources.
func (*HubStack) CleanUp(ctx context.Context, opt stack.DeployOptions, report *stack.Report) {
	logger := opt.Logger

	hubVPCID := cleanupHubVPCID(ctx, opt)

	cleanupPrivateZones(ctx, logger, opt, hubVPCID, report)
	cleanupLattice(ctx, logger, opt, report)
	cleanupVPCEndpoints(ctx, logger, opt, hubVPCID, report)
	cleanupNetworkSubstrate(ctx, logger, opt, report)
}

// cleanupHubVPCID recovers the hub VPC ID, preferring the recorded outputs
// and falling back to the substrate stack outputs when no state file exists.
func cleanupHubVPCID(ctx context.Context, opt stack.DeployOptions) string {
	if opt.Outputs != nil && opt.Outputs.HubVPCID != "" {
		return opt.Outputs.HubVPCID
	}

	cfnStack, err := awsprovider.GetStack(ctx, opt.Hub.CloudFormation, stack.HubNetworkStackName(opt.Prefix))
	if err != nil || cfnStack == nil {
		return ""
	}

	return awsprovider.StackOutputs(cfnStack)["VpcId"]
}

func cleanupPrivateZones(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, hubVPCID string, report *stack.Report) {
	logger.Info("🧹 Removing DNS override zones…")
	sublogger := log.Prefix(logger, "   ")

	for _, service := range stack.EndpointServices {
		domain := service.DomainName(opt.Region)
		resource := fmt.Sprintf("hosted zone %s", domain)

		zoneID, err := awsprovider.FindPrivateZone(ctx, opt.Hub.Route53, domain)
		if err != nil {
			report.Failed(resource, err)
			continue
		}
		if zoneID == "" {
			report.NotFound(resource)
			continue
		}

		// a zone only deletes once its extra records and VPC associations
		// are gone; the zone keeps its last association (the hub VPC) until
		// DeleteZone removes the zone itself
		if err := awsprovider.ScrubZone(ctx, sublogger, opt.Hub.Route53, zoneID, hubVPCID); err != nil {
			report.Failed(resource, err)
			continue
		}

		existed, err := awsprovider.DeleteZone(ctx, opt.Hub.Route53, zoneID)
		report.Record(resource, existed, err)
	}
}

func cleanupLattice(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, report *stack.Report) {
	logger.Info("🧹 Removing VPC Lattice resources…")
	sublogger := log.Prefix(logger, "   ")

	shareName := stack.ResourceShareName(opt.Prefix)
	existed, err := awsprovider.DeleteResourceShare(ctx, opt.Hub.RAM, shareName)
	report.Record(fmt.Sprintf("resource share %s", shareName), existed, err)

	networkName := stack.ServiceNetworkName(opt.Prefix)
	network, err := awsprovider.FindServiceNetwork(ctx, opt.Hub.Lattice, networkName)
	if err != nil {
		report.Failed(fmt.Sprintf("service network %s", networkName), err)
	}

	if network != nil {
		cleanupVPCAssociations(ctx, sublogger, opt, network.ID, report)
		cleanupResourceAssociations(ctx, sublogger, opt, network.ID, report)
	}

	cleanupResourceConfigurations(ctx, sublogger, opt, report)
	cleanupResourceGateway(ctx, sublogger, opt, report)

	if network != nil {
		existed, err := awsprovider.DeleteServiceNetwork(ctx, opt.Hub.Lattice, network.ID)
		report.Record(fmt.Sprintf("service network %s", networkName), existed, err)
	} else if err == nil {
		report.NotFound(fmt.Sprintf("service network %s", networkName))
	}
}

func cleanupVPCAssociations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, networkID string, report *stack.Report) {
	associations, err := awsprovider.ListVPCAssociations(ctx, opt.Hub.Lattice, networkID)
	if err != nil {
		report.Failed("service network VPC associations", err)
		return
	}

	for _, association := range associations {
		id := aws.ToString(association.Id)
		resource := fmt.Sprintf("VPC association %s", id)

		existed, err := awsprovider.DeleteVPCAssociation(ctx, logger, opt.Hub.Lattice, id, opt.PollInterval, opt.PollTimeout)
		report.Record(resource, existed, err)
	}
}

func cleanupResourceAssociations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, networkID string, report *stack.Report) {
	associations, err := awsprovider.ListResourceAssociations(ctx, opt.Hub.Lattice, networkID)
	if err != nil {
		report.Failed("service network resource associations", err)
		return
	}

	for _, association := range associations {
		id := aws.ToString(association.Id)
		resource := fmt.Sprintf("resource association %s", id)

		existed, err := awsprovider.DeleteResourceAssociation(ctx, logger, opt.Hub.Lattice, id, opt.PollInterval, opt.PollTimeout)
		report.Record(resource, existed, err)
	}
}

func cleanupResourceConfigurations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, report *stack.Report) {
	for _, service := range stack.EndpointServices {
		configName := service.ResourceConfigurationName(opt.Prefix)
		resource := fmt.Sprintf("resource configuration %s", configName)

		configID, err := awsprovider.FindResourceConfiguration(ctx, opt.Hub.Lattice, configName)
		if err != nil {
			report.Failed(resource, err)
			continue
		}
		if configID == "" {
			report.NotFound(resource)
			continue
		}

		existed, err := awsprovider.DeleteResourceConfiguration(ctx, logger, opt.Hub.Lattice, configID, opt.PollInterval, opt.PollTimeout)
		report.Record(resource, existed, err)
	}
}

func cleanupResourceGateway(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, report *stack.Report) {
	gatewayName := stack.ResourceGatewayName(opt.Prefix)
	resource := fmt.Sprintf("resource gateway %s", gatewayName)

	gatewayID, err := awsprovider.FindResourceGateway(ctx, opt.Hub.Lattice, gatewayName)
	if err != nil {
		report.Failed(resource, err)
		return
	}
	if gatewayID == "" {
		report.NotFound(resource)
		return
	}

	existed, err := awsprovider.DeleteResourceGateway(ctx, logger, opt.Hub.Lattice, gatewayID, opt.PollInterval, opt.PollTimeout)
	report.Record(resource, existed, err)
}

func cleanupVPCEndpoints(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, hubVPCID string, report *stack.Report) {
	logger.Info("🧹 Removing VPC endpoints…")

	if hubVPCID == "" {
		report.NotFound("VPC endpoints")
		return
	}

	deleted, err := awsprovider.DeleteVpcEndpoints(ctx, opt.Hub.EC2, hubVPCID)
	report.Record("VPC endpoints", len(deleted) > 0, err)
}

func cleanupNetworkSubstrate(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, report *stack.Report) {
	stackName := stack.HubNetworkStackName(opt.Prefix)

	logger.Infof("🧹 Removing network substrate stack %s…", stackName)
	sublogger := log.Prefix(logger, "   ")

	existed, err := awsprovider.DeleteStack(ctx, sublogger, opt.Hub.CloudFormation, stackName, opt.PollInterval, opt.PollTimeout)
	report.Record(fmt.Sprintf("stack %s", stackName), existed, err)
}
