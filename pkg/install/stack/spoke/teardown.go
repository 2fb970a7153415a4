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

package spoke

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/log"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

// CleanUp removes the spoke's resources: zone associations, the service
// network association, then the workload stack. The associations must go
// first, the VPC cannot delete while they exist.
func (s *SpokeStack) CleanUp(ctx context.Context, opt stack.DeployOptions, report *stack.Report) {
	logger := opt.Logger
	clients := s.clients(opt)

	vpcID := s.cleanupVPCID(ctx, opt, clients)
	if vpcID == "" {
		logger.Infof("⭕ Spoke %s has no workload VPC, nothing to disassociate.", s.environment)
	} else {
		s.cleanupZoneAssociations(ctx, logger, opt, clients, vpcID, report)
		s.cleanupServiceNetworkAssociation(ctx, logger, opt, clients, vpcID, report)
	}

	s.cleanupWorkloadVPC(ctx, logger, opt, clients, report)
}

func (s *SpokeStack) cleanupVPCID(ctx context.Context, opt stack.DeployOptions, clients *awsprovider.ClientSet) string {
	cfnStack, err := awsprovider.GetStack(ctx, clients.CloudFormation, stack.SpokeStackName(opt.Prefix, s.environment))
	if err != nil || cfnStack == nil {
		return ""
	}

	return awsprovider.StackOutputs(cfnStack)["VpcId"]
}

func (s *SpokeStack) cleanupZoneAssociations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet, vpcID string, report *stack.Report) {
	logger.Info("🧹 Removing DNS override zone associations…")

	for _, service := range stack.EndpointServices {
		domain := service.DomainName(opt.Region)
		resource := fmt.Sprintf("association of %s with zone %s", vpcID, domain)

		zoneID, err := awsprovider.FindPrivateZone(ctx, opt.Hub.Route53, domain)
		if err != nil {
			report.Failed(resource, err)
			continue
		}
		if zoneID == "" {
			report.NotFound(resource)
			continue
		}

		err = awsprovider.DisassociateVPCFromZone(ctx, clients.Route53, zoneID, vpcID, opt.Region)
		report.Record(resource, true, err)
	}
}

func (s *SpokeStack) cleanupServiceNetworkAssociation(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet, vpcID string, report *stack.Report) {
	logger.Info("🧹 Removing the service network association…")
	sublogger := log.Prefix(logger, "   ")

	resource := fmt.Sprintf("service network association of %s", vpcID)

	identifier := ""
	if opt.Outputs != nil {
		identifier = opt.Outputs.ServiceNetworkARN
	}
	if identifier == "" {
		report.NotFound(resource)
		return
	}

	association, err := awsprovider.FindVPCAssociation(ctx, clients.Lattice, identifier, vpcID)
	if err != nil {
		report.Failed(resource, err)
		return
	}
	if association == nil {
		report.NotFound(resource)
		return
	}

	existed, err := awsprovider.DeleteVPCAssociation(ctx, sublogger, clients.Lattice, aws.ToString(association.Id), opt.PollInterval, opt.PollTimeout)
	report.Record(resource, existed, err)
}

func (s *SpokeStack) cleanupWorkloadVPC(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet, report *stack.Report) {
	stackName := stack.SpokeStackName(opt.Prefix, s.environment)

	logger.Infof("🧹 Removing workload stack %s…", stackName)
	sublogger := log.Prefix(logger, "   ")

	existed, err := awsprovider.DeleteStack(ctx, sublogger, clients.CloudFormation, stackName, opt.PollInterval, opt.PollTimeout)
	report.Record(fmt.Sprintf("stack %s", stackName), existed, err)
}
