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

	"github.com/aws/aws-sdk-go-v2/service/vpclattice"
	latticetypes "github.com/aws/aws-sdk-go-v2/service/vpclattice/types"
	"github.com/sirupsen/logrus"

	"k8s.io/utils/ptr"
)

// ServiceNetwork is the identity of a VPC Lattice service network. The ARN is
// what gets shared with (and referenced by) the spoke accounts.
type ServiceNetwork struct {
	ID  string
	ARN string
}

// FindServiceNetwork looks up a service network by its exact name. Returns
// nil if no such network exists.
func FindServiceNetwork(ctx context.Context, client LatticeClient, name string) (*ServiceNetwork, error) {
	var nextToken *string

	for {
		out, err := client.ListServiceNetworks(ctx, &vpclattice.ListServiceNetworksInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list service networks: %w", err)
		}

		for _, item := range out.Items {
			if ptr.Deref(item.Name, "") == name {
				return &ServiceNetwork{
					ID:  ptr.Deref(item.Id, ""),
					ARN: ptr.Deref(item.Arn, ""),
				}, nil
			}
		}

		if out.NextToken == nil {
			return nil, nil
		}
		nextToken = out.NextToken
	}
}

// ReconcileServiceNetwork ensures a service network with the given name
// exists and returns its identity.
func ReconcileServiceNetwork(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, name string) (*ServiceNetwork, error) {
	network, err := FindServiceNetwork(ctx, client, name)
	if err != nil {
		return nil, err
	}

	if network != nil {
		logger.Debugf("Service network %s already exists, reusing it.", name)
		return network, nil
	}

	out, err := client.CreateServiceNetwork(ctx, &vpclattice.CreateServiceNetworkInput{
		Name: ptr.To(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service network %q: %w", name, err)
	}

	return &ServiceNetwork{
		ID:  ptr.Deref(out.Id, ""),
		ARN: ptr.Deref(out.Arn, ""),
	}, nil
}

// DeleteServiceNetwork removes the given service network. A missing network
// is reported via the bool result, not as an error.
func DeleteServiceNetwork(ctx context.Context, client LatticeClient, id string) (bool, error) {
	_, err := client.DeleteServiceNetwork(ctx, &vpclattice.DeleteServiceNetworkInput{
		ServiceNetworkIdentifier: ptr.To(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete service network %q: %w", id, err)
	}

	return true, nil
}

// ListServiceNetworksByPrefix returns all service networks whose name
// contains the given substring.
func ListServiceNetworksByPrefix(ctx context.Context, client LatticeClient, prefix string) ([]latticetypes.ServiceNetworkSummary, error) {
	var (
		result    []latticetypes.ServiceNetworkSummary
		nextToken *string
	)

	for {
		out, err := client.ListServiceNetworks(ctx, &vpclattice.ListServiceNetworksInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list service networks: %w", err)
		}

		for _, item := range out.Items {
			if nameContains(item.Name, prefix) {
				result = append(result, item)
			}
		}

		if out.NextToken == nil {
			return result, nil
		}
		nextToken = out.NextToken
	}
}
