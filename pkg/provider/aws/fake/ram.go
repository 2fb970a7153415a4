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

	"github.com/aws/aws-sdk-go-v2/service/ram"
	ramtypes "github.com/aws/aws-sdk-go-v2/service/ram/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"k8s.io/utils/ptr"
)

type fakeResourceShare struct {
	arn          string
	name         string
	owner        string
	resourceARNs []string
	principals   []string
}

type ramClient struct {
	cloud   *Cloud
	account string
}

func (c *ramClient) CreateResourceShare(ctx context.Context, params *ram.CreateResourceShareInput, optFns ...func(*ram.Options)) (*ram.CreateResourceShareOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ram", "CreateResourceShare")

	share := &fakeResourceShare{
		name:         ptr.Deref(params.Name, ""),
		owner:        c.account,
		resourceARNs: params.ResourceArns,
		principals:   params.Principals,
	}
	share.arn = fmt.Sprintf("arn:aws:ram:eu-west-1:%s:resource-share/%s", AccountNumber(c.account), c.cloud.newID("share"))
	c.cloud.shares[share.arn] = share

	return &ram.CreateResourceShareOutput{
		ResourceShare: &ramtypes.ResourceShare{
			ResourceShareArn: ptr.To(share.arn),
			Name:             ptr.To(share.name),
			Status:           ramtypes.ResourceShareStatusActive,
		},
	}, nil
}

func (c *ramClient) GetResourceShares(ctx context.Context, params *ram.GetResourceSharesInput, optFns ...func(*ram.Options)) (*ram.GetResourceSharesOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ram", "GetResourceShares")

	var shares []ramtypes.ResourceShare
	for _, share := range c.cloud.shares {
		if params.ResourceOwner == ramtypes.ResourceOwnerSelf && share.owner != c.account {
			continue
		}
		if name := ptr.Deref(params.Name, ""); name != "" && share.name != name {
			continue
		}

		shares = append(shares, ramtypes.ResourceShare{
			ResourceShareArn: ptr.To(share.arn),
			Name:             ptr.To(share.name),
			Status:           ramtypes.ResourceShareStatusActive,
		})
	}

	return &ram.GetResourceSharesOutput{ResourceShares: shares}, nil
}

func (c *ramClient) DeleteResourceShare(ctx context.Context, params *ram.DeleteResourceShareInput, optFns ...func(*ram.Options)) (*ram.DeleteResourceShareOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "ram", "DeleteResourceShare")

	arn := ptr.Deref(params.ResourceShareArn, "")
	if _, ok := c.cloud.shares[arn]; !ok {
		return nil, apiError("UnknownResourceException", "no such resource share")
	}

	delete(c.cloud.shares, arn)

	return &ram.DeleteResourceShareOutput{}, nil
}

type stsClient struct {
	cloud   *Cloud
	account string
}

func (c *stsClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "sts", "GetCallerIdentity")

	number := AccountNumber(c.account)

	return &sts.GetCallerIdentityOutput{
		Account: ptr.To(number),
		Arn:     ptr.To(fmt.Sprintf("arn:aws:iam::%s:user/installer", number)),
	}, nil
}
