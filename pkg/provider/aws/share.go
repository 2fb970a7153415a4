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

	"github.com/aws/aws-sdk-go-v2/service/ram"
	ramtypes "github.com/aws/aws-sdk-go-v2/service/ram/types"
	"github.com/sirupsen/logrus"

	"k8s.io/utils/ptr"
)

// FindResourceShare looks up a live resource share owned by the caller by
// its exact name. Returns "" if none exists.
func FindResourceShare(ctx context.Context, client RAMClient, name string) (string, error) {
	out, err := client.GetResourceShares(ctx, &ram.GetResourceSharesInput{
		ResourceOwner: ramtypes.ResourceOwnerSelf,
		Name:          ptr.To(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list resource shares: %w", err)
	}

	for _, share := range out.ResourceShares {
		if share.Status == ramtypes.ResourceShareStatusActive || share.Status == ramtypes.ResourceShareStatusPending {
			return ptr.Deref(share.ResourceShareArn, ""), nil
		}
	}

	return "", nil
}

// ReconcileResourceShare ensures the service network ARN is shared with the
// spoke account principals.
func ReconcileResourceShare(ctx context.Context, logger logrus.FieldLogger, client RAMClient, name, resourceARN string, principals []string) (string, error) {
	arn, err := FindResourceShare(ctx, client, name)
	if err != nil {
		return "", err
	}

	if arn != "" {
		logger.Debugf("Resource share %s already exists, reusing it.", name)
		return arn, nil
	}

	out, err := client.CreateResourceShare(ctx, &ram.CreateResourceShareInput{
		Name:                    ptr.To(name),
		ResourceArns:            []string{resourceARN},
		Principals:              principals,
		AllowExternalPrincipals: ptr.To(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create resource share %q: %w", name, err)
	}

	if out.ResourceShare == nil {
		return "", fmt.Errorf("resource share %q was created but no share was returned", name)
	}

	return ptr.Deref(out.ResourceShare.ResourceShareArn, ""), nil
}

// DeleteResourceShare removes the named resource share. A missing share is
// reported via the bool result, not as an error.
func DeleteResourceShare(ctx context.Context, client RAMClient, name string) (bool, error) {
	arn, err := FindResourceShare(ctx, client, name)
	if err != nil {
		return true, err
	}
	if arn == "" {
		return false, nil
	}

	if _, err := client.DeleteResourceShare(ctx, &ram.DeleteResourceShareInput{ResourceShareArn: ptr.To(arn)}); err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete resource share %q: %w", name, err)
	}

	return true, nil
}
