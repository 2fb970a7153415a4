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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/log"
)

var options = Options{}

func main() {
	logger := log.NewLogrus()

	rootCmd := &cobra.Command{
		Use:           "vpce-installer",
		Short:         "Provisions centralized VPC interface endpoints behind a VPC Lattice service network",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			options.ApplyEnvironment()

			if options.Verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	options.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		AllCommand(logger),
		HubCommand(logger),
		SpokeCommand(logger, "dev"),
		SpokeCommand(logger, "test"),
		StatusCommand(logger),
		CleanupCommand(logger),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
