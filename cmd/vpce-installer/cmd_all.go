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
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/hub"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/spoke"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
)

func AllCommand(logger *logrus.Logger) *cobra.Command {
	var opt Options

	cmd := &cobra.Command{
		Use:          "all",
		Short:        "Deploy the hub and both spokes in one go",
		RunE:         AllFunc(logger, &opt),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			options.CopyInto(&opt)
		},
	}

	return cmd
}

func AllFunc(logger *logrus.Logger, opt *Options) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deployOptions, err := getDeployOptions(ctx, logger, *opt, true, true)
		if err != nil {
			return err
		}

		logger.Info("🚀 Deploying the hub…")

		if err := hub.NewStack().Deploy(ctx, deployOptions); err != nil {
			return fmt.Errorf("hub: %w", err)
		}

		// the spokes consume the outputs the hub stage just wrote
		deployOptions.Outputs, err = state.Load(opt.StateFile)
		if err != nil {
			return err
		}

		for _, environment := range []string{"dev", "test"} {
			logger.Infof("🚀 Deploying the %s spoke…", environment)

			if err := spoke.NewStack(environment).Deploy(ctx, deployOptions); err != nil {
				return fmt.Errorf("spoke-%s: %w", environment, err)
			}
		}

		return nil
	})
}
