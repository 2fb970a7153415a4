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
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/hub"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack/spoke"
	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/state"
)

type CleanupOptions struct {
	Options

	Yes bool
}

func CleanupCommand(logger *logrus.Logger) *cobra.Command {
	var opt CleanupOptions

	cmd := &cobra.Command{
		Use:          "cleanup",
		Short:        "Tear down everything the installer created, spokes first",
		RunE:         CleanupFunc(logger, &opt),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			options.CopyInto(&opt.Options)
		},
	}

	cmd.PersistentFlags().BoolVar(&opt.Yes, "yes", false, "do not ask for confirmation before deleting")

	return cmd
}

func CleanupFunc(logger *logrus.Logger, opt *CleanupOptions) cobraFuncE {
	return handleErrors(logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deployOptions, err := getDeployOptions(ctx, logger, opt.Options, true, true)
		if err != nil {
			return err
		}

		if !opt.Yes && !confirm("Delete all resources with the prefix "+opt.Prefix+"?") {
			logger.Info("⭕ Aborting, nothing was deleted.")
			return nil
		}

		// the state file is optional during teardown, everything can be
		// recovered from the resource names
		outputs, err := state.Load(opt.StateFile)
		if err == nil {
			deployOptions.Outputs = outputs
		} else {
			logger.Debugf("Proceeding without outputs: %v", err)
		}

		report := &stack.Report{}

		stacks := []stack.Stack{
			spoke.NewStack("test"),
			spoke.NewStack("dev"),
			hub.NewStack(),
		}

		for _, s := range stacks {
			logger.Infof("🚀 Cleaning up %s…", s.Name())
			s.CleanUp(ctx, deployOptions, report)
		}

		report.Summarize(logger)

		if report.HasFailures() {
			return errors.New("some resources could not be removed")
		}

		if err := state.Remove(opt.StateFile); err != nil {
			return err
		}

		logger.Info("✅ Cleanup complete.")

		return nil
	})
}
