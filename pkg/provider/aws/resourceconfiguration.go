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
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/util/wait"

	"k8s.io/utils/ptr"
)

// FindResourceConfiguration looks up a resource configuration by its exact
// name. Returns "" if none exists.
func FindResourceConfiguration(ctx context.Context, client LatticeClient, name string) (string, error) {
	var nextToken *string

	for {
		out, err := client.ListResourceConfigurations(ctx, &vpclattice.ListResourceConfigurationsInput{NextToken: nextToken})
		if err != nil {
			return "", fmt.Errorf("failed to list resource configurations: %w", err)
		}

		for _, item := range out.Items {
			if ptr.Deref(item.Name, "") == name && item.Status != latticetypes.ResourceConfigurationStatusDeleteInProgress {
				return ptr.Deref(item.Id, ""), nil
			}
		}

		if out.NextToken == nil {
			return "", nil
		}
		nextToken = out.NextToken
	}
}

// ReconcileResourceConfiguration ensures a DNS-target resource configuration
// with the given name exists behind the resource gateway and waits until it
// is ACTIVE. Association with the service network must not be attempted
// before that.
func ReconcileResourceConfiguration(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, name, gatewayID, domainName string, port int32, interval, timeout time.Duration) (string, error) {
	id, err := FindResourceConfiguration(ctx, client, name)
	if err != nil {
		return "", err
	}

	if id != "" {
		logger.Debugf("Resource configuration %s already exists, reusing it.", name)
	} else {
		out, err := client.CreateResourceConfiguration(ctx, &vpclattice.CreateResourceConfigurationInput{
			Name:                      ptr.To(name),
			Type:                      latticetypes.ResourceConfigurationTypeSingle,
			ResourceGatewayIdentifier: ptr.To(gatewayID),
			Protocol:                  latticetypes.ProtocolTypeTcp,
			PortRanges:                []string{fmt.Sprintf("%d", port)},
			ResourceConfigurationDefinition: &latticetypes.ResourceConfigurationDefinitionMemberDnsResource{
				Value: latticetypes.DnsResource{
					DomainName:    ptr.To(domainName),
					IpAddressType: latticetypes.ResourceConfigurationIpAddressTypeIpv4,
				},
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to create resource configuration %q: %w", name, err)
		}

		id = ptr.Deref(out.Id, "")
	}

	err = wait.PollImmediateLog(ctx, logger, interval, timeout, func() (error, error) {
		out, err := client.GetResourceConfiguration(ctx, &vpclattice.GetResourceConfigurationInput{
			ResourceConfigurationIdentifier: ptr.To(id),
		})
		if err != nil {
			return nil, err
		}

		switch out.Status {
		case latticetypes.ResourceConfigurationStatusActive:
			return nil, nil
		case latticetypes.ResourceConfigurationStatusCreateInProgress:
			return fmt.Errorf("resource configuration %s is still %s", name, out.Status), nil
		default:
			return nil, fmt.Errorf("resource configuration %q reached status %s", name, out.Status)
		}
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// DeleteResourceConfiguration removes the given resource configuration and
// waits for the deletion to complete, since the resource gateway cannot be
// deleted while configurations still reference it.
func DeleteResourceConfiguration(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, id string, interval, timeout time.Duration) (bool, error) {
	_, err := client.DeleteResourceConfiguration(ctx, &vpclattice.DeleteResourceConfigurationInput{
		ResourceConfigurationIdentifier: ptr.To(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete resource configuration %q: %w", id, err)
	}

	err = wait.PollLog(ctx, logger, interval, timeout, func() (error, error) {
		_, err := client.GetResourceConfiguration(ctx, &vpclattice.GetResourceConfigurationInput{
			ResourceConfigurationIdentifier: ptr.To(id),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		return fmt.Errorf("resource configuration %s is still deleting", id), nil
	})

	return true, err
}
