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

// Package spoke provisions a workload account: a private VPC with an
// SSM-managed test instance, joined to the hub's service network and to the
// hub's DNS override zones.
package spoke

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/log"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

type SpokeStack struct {
	environment string
}

var _ stack.Stack = &SpokeStack{}

// NewStack returns the provisioner for one spoke environment, e.g. "dev" or
// "test".
func NewStack(environment string) *SpokeStack {
	return &SpokeStack{environment: environment}
}

func (s *SpokeStack) Name() string {
	return "spoke-" + s.environment
}

func (s *SpokeStack) clients(opt stack.DeployOptions) *awsprovider.ClientSet {
	if s.environment == "test" {
		return opt.SpokeTest
	}

	return opt.SpokeDev
}

func (s *SpokeStack) Deploy(ctx context.Context, opt stack.DeployOptions) error {
	logger := opt.Logger
	clients := s.clients(opt)

	if opt.Outputs == nil {
		return fmt.Errorf("no hub outputs available, deploy the hub first")
	}
	if opt.Outputs.ServiceNetworkARN == "" {
		return fmt.Errorf("hub outputs do not contain a service network ARN, deploy the hub first")
	}

	vpcID, err := s.deployWorkloadVPC(ctx, logger, opt, clients)
	if err != nil {
		return fmt.Errorf("failed to deploy the workload VPC: %w", err)
	}

	if err := s.deployServiceNetworkAssociation(ctx, logger, opt, clients, vpcID); err != nil {
		return fmt.Errorf("failed to associate the workload VPC with the service network: %w", err)
	}

	if err := s.deployZoneAssociations(ctx, logger, opt, clients, vpcID); err != nil {
		return fmt.Errorf("failed to associate the workload VPC with the DNS override zones: %w", err)
	}

	logger.Infof("✅ Spoke %s deployment complete.", s.environment)

	return nil
}

func (s *SpokeStack) deployWorkloadVPC(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet) (string, error) {
	stackName := stack.SpokeStackName(opt.Prefix, s.environment)

	logger.Infof("📦 Deploying workload stack %s…", stackName)
	sublogger := log.Prefix(logger, "   ")

	stackOutputs, err := awsprovider.ReconcileStack(ctx, sublogger, clients.CloudFormation, stackName, workloadTemplate, map[string]string{
		"NamePrefix":  opt.Prefix,
		"Environment": s.environment,
	}, opt.PollInterval, opt.PollTimeout)
	if err != nil {
		return "", err
	}

	vpcID := stackOutputs["VpcId"]
	if vpcID == "" {
		return "", fmt.Errorf("stack %q does not provide a VpcId output", stackName)
	}

	return vpcID, nil
}

// deployServiceNetworkAssociation joins the workload VPC to the shared
// service network. The spoke account refers to the network by its ARN, the
// form in which RAM shares it.
func (s *SpokeStack) deployServiceNetworkAssociation(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet, vpcID string) error {
	logger.Info("📦 Associating the workload VPC with the service network…")
	sublogger := log.Prefix(logger, "   ")

	_, err := awsprovider.ReconcileVPCAssociation(ctx, sublogger, clients.Lattice, opt.Outputs.ServiceNetworkARN, vpcID, nil, opt.PollInterval, opt.PollTimeout)

	return err
}

// deployZoneAssociations attaches the workload VPC to each of the hub's
// private override zones. Cross-account association is a handshake: the zone
// owner authorizes, the VPC owner associates, then the authorization is
// revoked so it cannot be replayed.
func (s *SpokeStack) deployZoneAssociations(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions, clients *awsprovider.ClientSet, vpcID string) error {
	logger.Info("📦 Associating the workload VPC with the DNS override zones…")
	sublogger := log.Prefix(logger, "   ")

	for _, service := range stack.EndpointServices {
		serviceOutputs := opt.Outputs.Services[service.Key]
		zoneID := serviceOutputs.HostedZoneID
		if zoneID == "" {
			return fmt.Errorf("hub outputs do not contain a hosted zone for %s, deploy the hub first", service.Key)
		}

		if err := awsprovider.AuthorizeVPCAssociation(ctx, opt.Hub.Route53, zoneID, vpcID, opt.Region); err != nil {
			return fmt.Errorf("failed to authorize the association with zone %s: %w", zoneID, err)
		}

		if err := awsprovider.AssociateVPCWithZone(ctx, sublogger, clients.Route53, zoneID, vpcID, opt.Region); err != nil {
			return fmt.Errorf("failed to associate with zone %s: %w", zoneID, err)
		}

		// the association survives the revocation
		if err := awsprovider.RevokeVPCAssociationAuthorization(ctx, opt.Hub.Route53, zoneID, vpcID, opt.Region); err != nil {
			sublogger.Warnf("Failed to revoke the association authorization for zone %s: %v", zoneID, err)
		}
	}

	return nil
}
