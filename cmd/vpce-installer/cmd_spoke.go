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

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/spoke"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
)

func SpokeCommand(logger *logrus.Logger, environment string) *cobra.Command {
	var opt Options

	cmd := &cobra.Command{
		Use:          "spoke-" + environment,
		Short:        fmt.Sprintf("Deploy the %s spoke account and join it to the hub", environment),
		RunE:         SpokeFunc(logger, environment, &opt),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			options.CopyInto(&opt)
		},
	}

	return cmd
}

func SpokeFunc(logger *logrus.Logger, environment string, opt *Options) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deployOptions, err := getDeployOptions(ctx, logger, *opt, environment == "dev", environment == "test")
		if err != nil {
			return err
		}

		deployOptions.Outputs, err = state.Load(opt.StateFile)
		if err != nil {
			return err
		}

		logger.Infof("🚀 Deploying the %s spoke…", environment)

		return spoke.NewStack(environment).Deploy(ctx, deployOptions)
	})
}
