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

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/hub"
)

func HubCommand(logger *logrus.Logger) *cobra.Command {
	var opt Options

	cmd := &cobra.Command{
		Use:          "hub",
		Short:        "Deploy the hub account: endpoints, service network, share and DNS zones",
		RunE:         HubFunc(logger, &opt),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			options.CopyInto(&opt)
		},
	}

	return cmd
}

func HubFunc(logger *logrus.Logger, opt *Options) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// the spoke profiles are needed to resolve the share principals
		deployOptions, err := getDeployOptions(ctx, logger, *opt, true, true)
		if err != nil {
			return err
		}

		logger.Info("🚀 Deploying the hub…")

		return hub.NewStack().Deploy(ctx, deployOptions)
	})
}
