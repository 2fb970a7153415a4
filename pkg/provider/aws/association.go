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
	"time"

	"github.com/aws/aws-sdk-go-v2/service/vpclattice"
	latticetypes "github.com/aws/aws-sdk-go-v2/service/vpclattice/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/util/wait"

	"k8s.io/utils/ptr"
)

// MaxAssociationAttempts bounds the retry on the throttling-prone
// service-network-resource association call.
const MaxAssociationAttempts = 3

// FindResourceAssociation returns the association between the given service
// network and resource configuration, or nil if none exists.
func FindResourceAssociation(ctx context.Context, client LatticeClient, serviceNetworkID, configurationID string) (*latticetypes.ServiceNetworkResourceAssociationSummary, error) {
	out, err := client.ListServiceNetworkResourceAssociations(ctx, &vpclattice.ListServiceNetworkResourceAssociationsInput{
		ServiceNetworkIdentifier:        ptr.To(serviceNetworkID),
		ResourceConfigurationIdentifier: ptr.To(configurationID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list resource associations: %w", err)
	}

	for i, item := range out.Items {
		if item.Status != latticetypes.ServiceNetworkResourceAssociationStatusDeleteInProgress {
			return &out.Items[i], nil
		}
	}

	return nil, nil
}

// ReconcileResourceAssociation binds a resource configuration to the service
// network, waits until the association is ACTIVE and returns the DNS name
// Lattice assigned to it. The create call is retried a bounded number of
// times when throttled, since AWS rate-limits rapid successive association
// creations.
func ReconcileResourceAssociation(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, serviceNetworkID, configurationID string, retryDelay, interval, timeout time.Duration) (string, error) {
	association, err := FindResourceAssociation(ctx, client, serviceNetworkID, configurationID)
	if err != nil {
		return "", err
	}

	var id string

	if association != nil {
		logger.Debug("Resource association already exists, reusing it.")
		id = ptr.Deref(association.Id, "")
	} else {
		err := backoff.Retry(func() error {
			out, err := client.CreateServiceNetworkResourceAssociation(ctx, &vpclattice.CreateServiceNetworkResourceAssociationInput{
				ServiceNetworkIdentifier:        ptr.To(serviceNetworkID),
				ResourceConfigurationIdentifier: ptr.To(configurationID),
			})
			if err != nil {
				if IsThrottled(err) {
					logger.Debugf("Association creation was throttled, retrying: %v", err)
					return err
				}
				return backoff.Permanent(err)
			}

			id = ptr.Deref(out.Id, "")
			return nil
		}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), MaxAssociationAttempts-1), ctx))
		if err != nil {
			return "", fmt.Errorf("failed to create resource association: %w", err)
		}
	}

	var dnsName string

	err = wait.PollImmediateLog(ctx, logger, interval, timeout, func() (error, error) {
		out, err := client.GetServiceNetworkResourceAssociation(ctx, &vpclattice.GetServiceNetworkResourceAssociationInput{
			ServiceNetworkResourceAssociationIdentifier: ptr.To(id),
		})
		if err != nil {
			return nil, err
		}

		switch out.Status {
		case latticetypes.ServiceNetworkResourceAssociationStatusActive:
			if out.DnsEntry != nil {
				dnsName = ptr.Deref(out.DnsEntry.DomainName, "")
			}
			return nil, nil
		case latticetypes.ServiceNetworkResourceAssociationStatusCreateInProgress:
			return fmt.Errorf("resource association %s is still %s", id, out.Status), nil
		default:
			return nil, fmt.Errorf("resource association %q reached status %s", id, out.Status)
		}
	})
	if err != nil {
		return "", err
	}

	if dnsName == "" {
		return "", fmt.Errorf("resource association %q is active but has no DNS entry", id)
	}

	return dnsName, nil
}

// ListResourceAssociations returns all non-deleting resource associations of
// the given service network.
func ListResourceAssociations(ctx context.Context, client LatticeClient, serviceNetworkID string) ([]latticetypes.ServiceNetworkResourceAssociationSummary, error) {
	out, err := client.ListServiceNetworkResourceAssociations(ctx, &vpclattice.ListServiceNetworkResourceAssociationsInput{
		ServiceNetworkIdentifier: ptr.To(serviceNetworkID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list resource associations: %w", err)
	}

	return out.Items, nil
}

// DeleteResourceAssociation removes a resource association and waits until
// it is gone, since the resource configuration cannot be deleted while the
// association lingers.
func DeleteResourceAssociation(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, id string, interval, timeout time.Duration) (bool, error) {
	_, err := client.DeleteServiceNetworkResourceAssociation(ctx, &vpclattice.DeleteServiceNetworkResourceAssociationInput{
		ServiceNetworkResourceAssociationIdentifier: ptr.To(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete resource association %q: %w", id, err)
	}

	err = wait.PollLog(ctx, logger, interval, timeout, func() (error, error) {
		_, err := client.GetServiceNetworkResourceAssociation(ctx, &vpclattice.GetServiceNetworkResourceAssociationInput{
			ServiceNetworkResourceAssociationIdentifier: ptr.To(id),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		return fmt.Errorf("resource association %s is still deleting", id), nil
	})

	return true, err
}

// FindVPCAssociation returns the association between the given service
// network and VPC, or nil if none exists.
func FindVPCAssociation(ctx context.Context, client LatticeClient, serviceNetworkIdentifier, vpcID string) (*latticetypes.ServiceNetworkVpcAssociationSummary, error) {
	out, err := client.ListServiceNetworkVpcAssociations(ctx, &vpclattice.ListServiceNetworkVpcAssociationsInput{
		ServiceNetworkIdentifier: ptr.To(serviceNetworkIdentifier),
		VpcIdentifier:            ptr.To(vpcID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list VPC associations: %w", err)
	}

	for i, item := range out.Items {
		if item.Status != latticetypes.ServiceNetworkVpcAssociationStatusDeleteInProgress {
			return &out.Items[i], nil
		}
	}

	return nil, nil
}

// ReconcileVPCAssociation joins a VPC to the service network and waits until
// the association is ACTIVE. The service network can be referenced by ID or,
// for cross-account calls, by its shared ARN.
func ReconcileVPCAssociation(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, serviceNetworkIdentifier, vpcID string, securityGroupIDs []string, interval, timeout time.Duration) (string, error) {
	association, err := FindVPCAssociation(ctx, client, serviceNetworkIdentifier, vpcID)
	if err != nil {
		return "", err
	}

	var id string

	if association != nil {
		logger.Debugf("VPC %s is already associated with the service network, reusing the association.", vpcID)
		id = ptr.Deref(association.Id, "")
	} else {
		out, err := client.CreateServiceNetworkVpcAssociation(ctx, &vpclattice.CreateServiceNetworkVpcAssociationInput{
			ServiceNetworkIdentifier: ptr.To(serviceNetworkIdentifier),
			VpcIdentifier:            ptr.To(vpcID),
			SecurityGroupIds:         securityGroupIDs,
		})
		if err != nil {
			return "", fmt.Errorf("failed to associate VPC %q with the service network: %w", vpcID, err)
		}

		id = ptr.Deref(out.Id, "")
	}

	err = wait.PollImmediateLog(ctx, logger, interval, timeout, func() (error, error) {
		out, err := client.GetServiceNetworkVpcAssociation(ctx, &vpclattice.GetServiceNetworkVpcAssociationInput{
			ServiceNetworkVpcAssociationIdentifier: ptr.To(id),
		})
		if err != nil {
			return nil, err
		}

		switch out.Status {
		case latticetypes.ServiceNetworkVpcAssociationStatusActive:
			return nil, nil
		case latticetypes.ServiceNetworkVpcAssociationStatusCreateInProgress:
			return fmt.Errorf("VPC association %s is still %s", id, out.Status), nil
		default:
			return nil, fmt.Errorf("VPC association %q reached status %s", id, out.Status)
		}
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// ListVPCAssociations returns all non-deleting VPC associations of the given
// service network.
func ListVPCAssociations(ctx context.Context, client LatticeClient, serviceNetworkIdentifier string) ([]latticetypes.ServiceNetworkVpcAssociationSummary, error) {
	out, err := client.ListServiceNetworkVpcAssociations(ctx, &vpclattice.ListServiceNetworkVpcAssociationsInput{
		ServiceNetworkIdentifier: ptr.To(serviceNetworkIdentifier),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list VPC associations: %w", err)
	}

	return out.Items, nil
}

// DeleteVPCAssociation removes a VPC association and waits until it is gone.
func DeleteVPCAssociation(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, id string, interval, timeout time.Duration) (bool, error) {
	_, err := client.DeleteServiceNetworkVpcAssociation(ctx, &vpclattice.DeleteServiceNetworkVpcAssociationInput{
		ServiceNetworkVpcAssociationIdentifier: ptr.To(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete VPC association %q: %w", id, err)
	}

	err = wait.PollLog(ctx, logger, interval, timeout, func() (error, error) {
		_, err := client.GetServiceNetworkVpcAssociation(ctx, &vpclattice.GetServiceNetworkVpcAssociationInput{
			ServiceNetworkVpcAssociationIdentifier: ptr.To(id),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		return fmt.Errorf("VPC association %s is still deleting", id), nil
	})

	return true, err
}
