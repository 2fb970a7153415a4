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
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/sirupsen/logrus"

	"k8s.io/utils/ptr"
)

const defaultRecordTTL = int64(300)

func zoneVPC(vpcID, region string) *r53types.VPC {
	return &r53types.VPC{
		VPCId:     ptr.To(vpcID),
		VPCRegion: r53types.VPCRegion(region),
	}
}

// normalizeZoneID strips the "/hostedzone/" prefix Route53 puts in front of
// zone IDs in some responses.
func normalizeZoneID(id string) string {
	return strings.TrimPrefix(id, "/hostedzone/")
}

func normalizeDomain(domain string) string {
	return strings.TrimSuffix(domain, ".") + "."
}

// FindPrivateZone looks up a private hosted zone by its exact domain name.
// Returns "" if no such zone exists.
func FindPrivateZone(ctx context.Context, client Route53Client, domain string) (string, error) {
	out, err := client.ListHostedZonesByName(ctx, &route53.ListHostedZonesByNameInput{
		DNSName: ptr.To(domain),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list hosted zones: %w", err)
	}

	for _, zone := range out.HostedZones {
		if ptr.Deref(zone.Name, "") != normalizeDomain(domain) {
			continue
		}
		if zone.Config != nil && zone.Config.PrivateZone {
			return normalizeZoneID(ptr.Deref(zone.Id, "")), nil
		}
	}

	return "", nil
}

// ReconcilePrivateZone ensures a private hosted zone for the given domain
// exists and is attached to the given VPC.
func ReconcilePrivateZone(ctx context.Context, logger logrus.FieldLogger, client Route53Client, domain, vpcID, region string) (string, error) {
	zoneID, err := FindPrivateZone(ctx, client, domain)
	if err != nil {
		return "", err
	}

	if zoneID != "" {
		logger.Debugf("Private zone for %s already exists, reusing it.", domain)
		return zoneID, nil
	}

	out, err := client.CreateHostedZone(ctx, &route53.CreateHostedZoneInput{
		Name: ptr.To(domain),
		// the caller reference makes retried creations idempotent
		CallerReference: ptr.To(fmt.Sprintf("%s-%s", domain, vpcID)),
		VPC:             zoneVPC(vpcID, region),
		HostedZoneConfig: &r53types.HostedZoneConfig{
			PrivateZone: true,
			Comment:     ptr.To("DNS override zone for centralized VPC endpoints"),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create private zone for %q: %w", domain, err)
	}

	if out.HostedZone == nil {
		return "", fmt.Errorf("zone for %q was created but no zone was returned", domain)
	}

	return normalizeZoneID(ptr.Deref(out.HostedZone.Id, "")), nil
}

// UpsertCNAME writes a single CNAME record into the zone.
func UpsertCNAME(ctx context.Context, client Route53Client, zoneID, name, target string) error {
	_, err := client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: ptr.To(zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: []r53types.Change{{
				Action: r53types.ChangeActionUpsert,
				ResourceRecordSet: &r53types.ResourceRecordSet{
					Name: ptr.To(name),
					Type: r53types.RRTypeCname,
					TTL:  ptr.To(defaultRecordTTL),
					ResourceRecords: []r53types.ResourceRecord{{
						Value: ptr.To(target),
					}},
				},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert CNAME %q: %w", name, err)
	}

	return nil
}

// AuthorizeVPCAssociation allows a foreign VPC to be associated with the
// zone. Must be called with the zone owner's credentials before the foreign
// account associates.
func AuthorizeVPCAssociation(ctx context.Context, client Route53Client, zoneID, vpcID, region string) error {
	_, err := client.CreateVPCAssociationAuthorization(ctx, &route53.CreateVPCAssociationAuthorizationInput{
		HostedZoneId: ptr.To(zoneID),
		VPC:          zoneVPC(vpcID, region),
	})
	if err != nil {
		return fmt.Errorf("failed to authorize VPC %q for zone %q: %w", vpcID, zoneID, err)
	}

	return nil
}

// RevokeVPCAssociationAuthorization removes a pending authorization again.
// Safe to call once the association has been established.
func RevokeVPCAssociationAuthorization(ctx context.Context, client Route53Client, zoneID, vpcID, region string) error {
	_, err := client.DeleteVPCAssociationAuthorization(ctx, &route53.DeleteVPCAssociationAuthorizationInput{
		HostedZoneId: ptr.To(zoneID),
		VPC:          zoneVPC(vpcID, region),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to revoke authorization of VPC %q for zone %q: %w", vpcID, zoneID, err)
	}

	return nil
}

// AssociateVPCWithZone associates the given VPC with the zone, using the
// VPC owner's credentials. An already existing association counts as
// success.
func AssociateVPCWithZone(ctx context.Context, logger logrus.FieldLogger, client Route53Client, zoneID, vpcID, region string) error {
	_, err := client.AssociateVPCWithHostedZone(ctx, &route53.AssociateVPCWithHostedZoneInput{
		HostedZoneId: ptr.To(zoneID),
		VPC:          zoneVPC(vpcID, region),
	})
	if err != nil {
		if IsAlreadyAssociated(err) {
			logger.Debugf("VPC %s is already associated with zone %s.", vpcID, zoneID)
			return nil
		}

		return fmt.Errorf("failed to associate VPC %q with zone %q: %w", vpcID, zoneID, err)
	}

	return nil
}

// DisassociateVPCFromZone removes a VPC association from the zone.
func DisassociateVPCFromZone(ctx context.Context, client Route53Client, zoneID, vpcID, region string) error {
	_, err := client.DisassociateVPCFromHostedZone(ctx, &route53.DisassociateVPCFromHostedZoneInput{
		HostedZoneId: ptr.To(zoneID),
		VPC:          zoneVPC(vpcID, region),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to disassociate VPC %q from zone %q: %w", vpcID, zoneID, err)
	}

	return nil
}

// ScrubZone prepares a zone for deletion: every record except the NS/SOA
// pair is removed and every VPC association except the creating VPC is
// dropped. Route53 refuses to delete zones that still carry either.
func ScrubZone(ctx context.Context, logger logrus.FieldLogger, client Route53Client, zoneID, keepVPCID string) error {
	records, err := client.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId: ptr.To(zoneID),
	})
	if err != nil {
		return fmt.Errorf("failed to list records in zone %q: %w", zoneID, err)
	}

	var changes []r53types.Change
	for i, record := range records.ResourceRecordSets {
		if record.Type == r53types.RRTypeNs || record.Type == r53types.RRTypeSoa {
			continue
		}

		changes = append(changes, r53types.Change{
			Action:            r53types.ChangeActionDelete,
			ResourceRecordSet: &records.ResourceRecordSets[i],
		})
	}

	if len(changes) > 0 {
		logger.Debugf("Deleting %d record(s) from zone %s.", len(changes), zoneID)

		_, err = client.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
			HostedZoneId: ptr.To(zoneID),
			ChangeBatch:  &r53types.ChangeBatch{Changes: changes},
		})
		if err != nil {
			return fmt.Errorf("failed to delete records from zone %q: %w", zoneID, err)
		}
	}

	zone, err := client.GetHostedZone(ctx, &route53.GetHostedZoneInput{Id: ptr.To(zoneID)})
	if err != nil {
		return fmt.Errorf("failed to get zone %q: %w", zoneID, err)
	}

	for _, vpc := range zone.VPCs {
		vpcID := ptr.Deref(vpc.VPCId, "")
		if vpcID == keepVPCID {
			continue
		}

		logger.Debugf("Disassociating VPC %s from zone %s.", vpcID, zoneID)

		if err := DisassociateVPCFromZone(ctx, client, zoneID, vpcID, string(vpc.VPCRegion)); err != nil {
			return err
		}
	}

	return nil
}

// DeleteZone removes the given hosted zone. A missing zone is reported via
// the bool result, not as an error.
func DeleteZone(ctx context.Context, client Route53Client, zoneID string) (bool, error) {
	_, err := client.DeleteHostedZone(ctx, &route53.DeleteHostedZoneInput{Id: ptr.To(zoneID)})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return true, fmt.Errorf("failed to delete zone %q: %w", zoneID, err)
	}

	return true, nil
}
