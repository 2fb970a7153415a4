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

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/status"
)

func StatusCommand(logger *logrus.Logger) *cobra.Command {
	var opt Options

	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show what currently exists in the configured accounts",
		RunE:         StatusFunc(logger, &opt),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			options.CopyInto(&opt)
		},
	}

	return cmd
}

func StatusFunc(logger *logrus.Logger, opt *Options) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// spoke clients are optional here, status shows whatever is reachable
		deployOptions, err := getDeployOptions(ctx, logger, *opt, opt.SpokeDevProfile != "", opt.SpokeTestProfile != "")
		if err != nil {
			return err
		}

		return status.Print(ctx, logger, deployOptions)
	})
}
