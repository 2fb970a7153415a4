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

// Package status reports, read-only, what currently exists in the configured
// accounts under the chosen name prefix.
package status

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

type row struct {
	account string
	kind    string
	name    string
	details string
}

type account struct {
	label   string
	clients *awsprovider.ClientSet
}

// Print lists the stacks, service networks and VPC endpoints carrying the
// prefix in every configured account. Listing failures are warnings, a
// status report should show as much as it can.
func Print(ctx context.Context, logger logrus.FieldLogger, opt stack.DeployOptions) error {
	accounts := []account{
		{label: "hub", clients: opt.Hub},
		{label: "spoke-dev", clients: opt.SpokeDev},
		{label: "spoke-test", clients: opt.SpokeTest},
	}

	var rows []row
	for _, acc := range accounts {
		if acc.clients == nil {
			continue
		}

		rows = append(rows, collect(ctx, logger, acc, opt.Prefix)...)
	}

	if len(rows) == 0 {
		logger.Infof("No resources with the prefix %q were found.", opt.Prefix)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Account", "Type", "Name", "Details"})
	table.SetBorder(false)
	table.SetColumnSeparator("")

	for _, r := range rows {
		table.Append([]string{r.account, r.kind, r.name, r.details})
	}

	table.Render()

	return nil
}

func collect(ctx context.Context, logger logrus.FieldLogger, acc account, prefix string) []row {
	var rows []row

	stacks, err := awsprovider.ListStacksByPrefix(ctx, acc.clients.CloudFormation, prefix)
	if err != nil {
		logger.Warnf("Failed to list stacks in %s: %v", acc.label, err)
	}
	for _, summary := range stacks {
		rows = append(rows, row{
			account: acc.label,
			kind:    "CloudFormation stack",
			name:    aws.ToString(summary.StackName),
			details: string(summary.StackStatus),
		})
	}

	networks, err := awsprovider.ListServiceNetworksByPrefix(ctx, acc.clients.Lattice, prefix)
	if err != nil {
		logger.Warnf("Failed to list service networks in %s: %v", acc.label, err)
	}
	for _, summary := range networks {
		rows = append(rows, row{
			account: acc.label,
			kind:    "service network",
			name:    aws.ToString(summary.Name),
			details: aws.ToString(summary.Id),
		})
	}

	endpoints, err := awsprovider.ListVpcEndpointsByPrefix(ctx, acc.clients.EC2, prefix)
	if err != nil {
		logger.Warnf("Failed to list VPC endpoints in %s: %v", acc.label, err)
	}
	for _, endpoint := range endpoints {
		rows = append(rows, row{
			account: acc.label,
			kind:    "VPC endpoint",
			name:    aws.ToString(endpoint.VpcEndpointId),
			details: string(endpoint.State),
		})
	}

	return rows
}
