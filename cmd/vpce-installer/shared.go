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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/install/stack"
	awsprovider "github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/provider/aws"
)

type cobraFuncE func(cmd *cobra.Command, args []string) error

func handleErrors(logger *logrus.Logger, action cobraFuncE) cobraFuncE {
	return func(cmd *cobra.Command, args []string) error {
		err := action(cmd, args)
		if err != nil {
			logger.Errorf("❌ Operation failed: %v.", err)
		}

		return err
	}
}

// getDeployOptions validates the flags and builds the client sets the stage
// needs. Spoke client sets are only built when requested.
func getDeployOptions(ctx context.Context, logger logrus.FieldLogger, opt Options, needSpokeDev, needSpokeTest bool) (stack.DeployOptions, error) {
	deployOptions := stack.DeployOptions{
		Prefix:    opt.Prefix,
		Region:    opt.Region,
		StateFile: opt.StateFile,
		Logger:    logger,
	}
	deployOptions.ApplyDefaults()

	if err := opt.Validate(needSpokeDev, needSpokeTest); err != nil {
		return deployOptions, err
	}

	var err error

	if opt.HubProfile != "" {
		deployOptions.Hub, err = awsprovider.GetClientSet(ctx, opt.Region, opt.HubProfile)
	} else {
		deployOptions.Hub, err = awsprovider.GetClientSetWithKeys(ctx, opt.Region, opt.HubAccessKeyID, opt.HubSecretAccessKey)
	}
	if err != nil {
		return deployOptions, fmt.Errorf("failed to build the hub clients: %w", err)
	}

	if needSpokeDev {
		deployOptions.SpokeDev, err = awsprovider.GetClientSet(ctx, opt.Region, opt.SpokeDevProfile)
		if err != nil {
			return deployOptions, fmt.Errorf("failed to build the dev spoke clients: %w", err)
		}
	}

	if needSpokeTest {
		deployOptions.SpokeTest, err = awsprovider.GetClientSet(ctx, opt.Region, opt.SpokeTestProfile)
		if err != nil {
			return deployOptions, fmt.Errorf("failed to build the test spoke clients: %w", err)
		}
	}

	return deployOptions, nil
}

// confirm asks the operator a y/N question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
