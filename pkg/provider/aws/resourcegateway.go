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

// FindResourceGateway looks up a resource gateway by its exact name. Returns
// "" if no such gateway exists.
func FindResourceGateway(ctx context.Context, client LatticeClient, name string) (string, error) {
	var nextToken *string

	for {
		out, err := client.ListResourceGateways(ctx, &vpclattice.ListResourceGatewaysInput{NextToken: nextToken})
		if err != nil {
			return "", fmt.Errorf("failed to list resource gateways: %w", err)
		}

		for _, item := range out.Items {
			if ptr.Deref(item.Name, "") == name && item.Status != latticetypes.ResourceGatewayStatusDeleteInProgress {
				return ptr.Deref(item.Id, ""), nil
			}
		}

		if out.NextToken == nil {
			return "", nil
		}
		nextToken = out.NextToken
	}
}

// ReconcileResourceGateway ensures a resource gateway with the given name
// exists in the VPC and waits until it is ACTIVE.
func ReconcileResourceGateway(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, name, vpcID string, subnetIDs, securityGroupIDs []string, interval, timeout time.Duration) (string, error) {
	id, err := FindResourceGateway(ctx, client, name)
	if err != nil {
		return "", err
	}

	if id != "" {
		logger.Debugf("Resource gateway %s already exists, reusing it.", name)
	} else {
		out, err := client.CreateResourceGateway(ctx, &vpclattice.CreateResourceGatewayInput{
			Name:             ptr.To(name),
			VpcIdentifier:    ptr.To(vpcID),
			SubnetIds:        subnetIDs,
			SecurityGroupIds: securityGroupIDs,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create resource gateway %q: %w", name, err)
		}

		id = ptr.Deref(out.Id, "")
	}

	err = wait.PollImmediateLog(ctx, logger, interval, timeout, func() (error, error) {
		out, err := client.GetResourceGateway(ctx, &vpclattice.GetResourceGatewayInput{
			ResourceGatewayIdentifier: ptr.To(id),
		})
		if err != nil {
			return nil, err
		}

		switch out.Status {
		case latticetypes.ResourceGatewayStatusActive:
			return nil, nil
		case latticetypes.ResourceGatewayStatusCreateInProgress:
			return fmt.Errorf("resource gateway %s is still %s", name, out.Status), nil
		default:
			return nil, fmt.Errorf("resource gateway %q reached status %s", name, out.Status)
		}
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// DeleteResourceGateway removes the given resource gateway and waits for the
// deletion to complete.
func DeleteResourceGateway(ctx context.Context, logger logrus.FieldLogger, client LatticeClient, id string, interval, timeout time.Duration) (bool, error) {
	_, err := client.DeleteResourceGateway(ctx, &vpclattice.DeleteResourceGatewayInput{
		ResourceGatewayIdentifier: ptr.To(id),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete resource gateway %q: %w", id, err)
	}

	err = wait.PollLog(ctx, logger, interval, timeout, func() (error, error) {
		_, err := client.GetResourceGateway(ctx, &vpclattice.GetResourceGatewayInput{
			ResourceGatewayIdentifier: ptr.To(id),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		return fmt.Errorf("resource gateway %s is still deleting", id), nil
	})

	return true, err
}
