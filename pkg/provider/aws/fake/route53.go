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
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"

	"k8s.io/utils/ptr"
)

type fakeZone struct {
	id      string
	name    string
	owner   string
	private bool
	vpcs    []r53types.VPC
	records []r53types.ResourceRecordSet
}

type route53Client struct {
	cloud   *Cloud
	account string
}

func fqdn(domain string) string {
	return strings.TrimSuffix(domain, ".") + "."
}

func trimZoneID(id string) string {
	return strings.TrimPrefix(id, "/hostedzone/")
}

func authKey(zoneID, vpcID string) string {
	return zoneID + "/" + vpcID
}

func (z *fakeZone) isAssociated(vpcID string) bool {
	for _, vpc := range z.vpcs {
		if ptr.Deref(vpc.VPCId, "") == vpcID {
			return true
		}
	}

	return false
}

func (c *route53Client) CreateHostedZone(ctx context.Context, params *route53.CreateHostedZoneInput, optFns ...func(*route53.Options)) (*route53.CreateHostedZoneOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "CreateHostedZone")

	name := fqdn(ptr.Deref(params.Name, ""))

	zone := &fakeZone{
		id:      c.cloud.newID("Z"),
		name:    name,
		owner:   c.account,
		private: params.HostedZoneConfig != nil && params.HostedZoneConfig.PrivateZone,
	}
	if params.VPC != nil {
		zone.vpcs = append(zone.vpcs, *params.VPC)
	}

	// every new zone carries its NS and SOA pair
	zone.records = []r53types.ResourceRecordSet{
		{Name: ptr.To(name), Type: r53types.RRTypeNs},
		{Name: ptr.To(name), Type: r53types.RRTypeSoa},
	}

	c.cloud.zones[zone.id] = zone

	return &route53.CreateHostedZoneOutput{
		HostedZone: &r53types.HostedZone{
			Id:   ptr.To("/hostedzone/" + zone.id),
			Name: ptr.To(zone.name),
			Config: &r53types.HostedZoneConfig{
				PrivateZone: zone.private,
			},
		},
	}, nil
}

func (c *route53Client) ListHostedZonesByName(ctx context.Context, params *route53.ListHostedZonesByNameInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "ListHostedZonesByName")

	var zones []r53types.HostedZone
	for _, zone := range c.cloud.zones {
		zones = append(zones, r53types.HostedZone{
			Id:   ptr.To("/hostedzone/" + zone.id),
			Name: ptr.To(zone.name),
			Config: &r53types.HostedZoneConfig{
				PrivateZone: zone.private,
			},
		})
	}

	return &route53.ListHostedZonesByNameOutput{HostedZones: zones}, nil
}

func (c *route53Client) GetHostedZone(ctx context.Context, params *route53.GetHostedZoneInput, optFns ...func(*route53.Options)) (*route53.GetHostedZoneOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "GetHostedZone")

	zone, ok := c.cloud.zones[trimZoneID(ptr.Deref(params.Id, ""))]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	return &route53.GetHostedZoneOutput{
		HostedZone: &r53types.HostedZone{
			Id:   ptr.To("/hostedzone/" + zone.id),
			Name: ptr.To(zone.name),
		},
		VPCs: zone.vpcs,
	}, nil
}

func (c *route53Client) DeleteHostedZone(ctx context.Context, params *route53.DeleteHostedZoneInput, optFns ...func(*route53.Options)) (*route53.DeleteHostedZoneOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "DeleteHostedZone")

	id := trimZoneID(ptr.Deref(params.Id, ""))

	zone, ok := c.cloud.zones[id]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	if c.cloud.ZoneDeleteFails {
		return nil, apiError("InternalError", "injected failure")
	}

	for _, record := range zone.records {
		if record.Type != r53types.RRTypeNs && record.Type != r53types.RRTypeSoa {
			return nil, apiError("HostedZoneNotEmpty", "the hosted zone still contains records")
		}
	}

	delete(c.cloud.zones, id)

	return &route53.DeleteHostedZoneOutput{}, nil
}

func (c *route53Client) ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "ChangeResourceRecordSets")

	zone, ok := c.cloud.zones[trimZoneID(ptr.Deref(params.HostedZoneId, ""))]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	if c.cloud.RecordChangeFails {
		return nil, apiError("InternalError", "injected failure")
	}

	for _, change := range params.ChangeBatch.Changes {
		record := change.ResourceRecordSet
		name := fqdn(ptr.Deref(record.Name, ""))

		index := -1
		for i, existing := range zone.records {
			if fqdn(ptr.Deref(existing.Name, "")) == name && existing.Type == record.Type {
				index = i
				break
			}
		}

		switch change.Action {
		case r53types.ChangeActionUpsert, r53types.ChangeActionCreate:
			if index >= 0 {
				zone.records[index] = *record
			} else {
				zone.records = append(zone.records, *record)
			}

		case r53types.ChangeActionDelete:
			if index < 0 {
				return nil, apiError("InvalidChangeBatch", fmt.Sprintf("record %s not found", name))
			}
			zone.records = append(zone.records[:index], zone.records[index+1:]...)
		}
	}

	return &route53.ChangeResourceRecordSetsOutput{}, nil
}

func (c *route53Client) ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "ListResourceRecordSets")

	zone, ok := c.cloud.zones[trimZoneID(ptr.Deref(params.HostedZoneId, ""))]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	records := make([]r53types.ResourceRecordSet, len(zone.records))
	copy(records, zone.records)

	return &route53.ListResourceRecordSetsOutput{ResourceRecordSets: records}, nil
}

func (c *route53Client) CreateVPCAssociationAuthorization(ctx context.Context, params *route53.CreateVPCAssociationAuthorizationInput, optFns ...func(*route53.Options)) (*route53.CreateVPCAssociationAuthorizationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "CreateVPCAssociationAuthorization")

	zoneID := trimZoneID(ptr.Deref(params.HostedZoneId, ""))

	zone, ok := c.cloud.zones[zoneID]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}
	if zone.owner != c.account {
		return nil, apiError("NotAuthorizedException", "only the zone owner may authorize associations")
	}

	c.cloud.authorizations[authKey(zoneID, ptr.Deref(params.VPC.VPCId, ""))] = true

	return &route53.CreateVPCAssociationAuthorizationOutput{}, nil
}

func (c *route53Client) DeleteVPCAssociationAuthorization(ctx context.Context, params *route53.DeleteVPCAssociationAuthorizationInput, optFns ...func(*route53.Options)) (*route53.DeleteVPCAssociationAuthorizationOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "DeleteVPCAssociationAuthorization")

	key := authKey(trimZoneID(ptr.Deref(params.HostedZoneId, "")), ptr.Deref(params.VPC.VPCId, ""))
	if !c.cloud.authorizations[key] {
		return nil, apiError("VPCAssociationAuthorizationNotFound", "no such authorization")
	}

	delete(c.cloud.authorizations, key)

	return &route53.DeleteVPCAssociationAuthorizationOutput{}, nil
}

func (c *route53Client) AssociateVPCWithHostedZone(ctx context.Context, params *route53.AssociateVPCWithHostedZoneInput, optFns ...func(*route53.Options)) (*route53.AssociateVPCWithHostedZoneOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "AssociateVPCWithHostedZone")

	zoneID := trimZoneID(ptr.Deref(params.HostedZoneId, ""))
	vpcID := ptr.Deref(params.VPC.VPCId, "")

	zone, ok := c.cloud.zones[zoneID]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	if zone.isAssociated(vpcID) {
		return nil, apiError("ConflictingDomainExists", fmt.Sprintf("VPC %s is already associated with zone %s", vpcID, zoneID))
	}

	// cross-account associations need a standing authorization from the owner
	if zone.owner != c.account && !c.cloud.authorizations[authKey(zoneID, vpcID)] {
		return nil, apiError("NotAuthorizedException", "association has not been authorized by the zone owner")
	}

	zone.vpcs = append(zone.vpcs, *params.VPC)

	return &route53.AssociateVPCWithHostedZoneOutput{}, nil
}

func (c *route53Client) DisassociateVPCFromHostedZone(ctx context.Context, params *route53.DisassociateVPCFromHostedZoneInput, optFns ...func(*route53.Options)) (*route53.DisassociateVPCFromHostedZoneOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "route53", "DisassociateVPCFromHostedZone")

	zoneID := trimZoneID(ptr.Deref(params.HostedZoneId, ""))
	vpcID := ptr.Deref(params.VPC.VPCId, "")

	zone, ok := c.cloud.zones[zoneID]
	if !ok {
		return nil, apiError("NoSuchHostedZone", "no such hosted zone")
	}

	for i, vpc := range zone.vpcs {
		if ptr.Deref(vpc.VPCId, "") == vpcID {
			zone.vpcs = append(zone.vpcs[:i], zone.vpcs[i+1:]...)
			return &route53.DisassociateVPCFromHostedZoneOutput{}, nil
		}
	}

	return nil, apiError("VPCAssociationNotFound", "the VPC is not associated with the hosted zone")
}
