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
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Options are the flags shared by every subcommand.
type Options struct {
	Verbose bool

	Region string
	Prefix string

	HubProfile       string
	SpokeDevProfile  string
	SpokeTestProfile string

	// HubAccessKeyID and HubSecretAccessKey are the static-credential
	// alternative to a hub profile, taken from the standard environment
	// variables.
	HubAccessKeyID     string
	HubSecretAccessKey string

	StateFile string
}

func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "enable more verbose output")
	flags.StringVar(&o.Region, "region", "", "AWS region to deploy into ($AWS_REGION)")
	flags.StringVar(&o.Prefix, "prefix", "", "name prefix for every created resource ($VPCE_PREFIX, default central-vpce)")
	flags.StringVar(&o.HubProfile, "hub-profile", "", "AWS shared-config profile for the hub account ($HUB_PROFILE)")
	flags.StringVar(&o.SpokeDevProfile, "spoke-dev-profile", "", "AWS shared-config profile for the dev spoke account ($SPOKE_DEV_PROFILE)")
	flags.StringVar(&o.SpokeTestProfile, "spoke-test-profile", "", "AWS shared-config profile for the test spoke account ($SPOKE_TEST_PROFILE)")
	flags.StringVar(&o.StateFile, "state-file", "", "path to the hub outputs file ($VPCE_STATE_FILE, default ./<prefix>-outputs.json)")
}

// ApplyEnvironment fills unset flags from the environment and applies the
// defaults that depend on other flags.
func (o *Options) ApplyEnvironment() {
	if o.Region == "" {
		o.Region = os.Getenv("AWS_REGION")
	}
	if o.Prefix == "" {
		o.Prefix = os.Getenv("VPCE_PREFIX")
	}
	if o.Prefix == "" {
		o.Prefix = "central-vpce"
	}
	if o.HubProfile == "" {
		o.HubProfile = os.Getenv("HUB_PROFILE")
	}
	if o.HubProfile == "" {
		o.HubAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
		o.HubSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if o.SpokeDevProfile == "" {
		o.SpokeDevProfile = os.Getenv("SPOKE_DEV_PROFILE")
	}
	if o.SpokeTestProfile == "" {
		o.SpokeTestProfile = os.Getenv("SPOKE_TEST_PROFILE")
	}
	if o.StateFile == "" {
		o.StateFile = os.Getenv("VPCE_STATE_FILE")
	}
	if o.StateFile == "" {
		o.StateFile = fmt.Sprintf("./%s-outputs.json", o.Prefix)
	}
}

func (o *Options) CopyInto(dst *Options) {
	*dst = *o
}

// Validate checks that everything a stage needs is configured, before any AWS
// call is made.
func (o *Options) Validate(needSpokeDev, needSpokeTest bool) error {
	if o.Region == "" {
		return errors.New("no region (--region or $AWS_REGION) given")
	}
	if o.HubProfile == "" && (o.HubAccessKeyID == "" || o.HubSecretAccessKey == "") {
		return errors.New("no hub credentials (--hub-profile / $HUB_PROFILE, or $AWS_ACCESS_KEY_ID and $AWS_SECRET_ACCESS_KEY) given")
	}
	if needSpokeDev && o.SpokeDevProfile == "" {
		return errors.New("no dev spoke profile (--spoke-dev-profile or $SPOKE_DEV_PROFILE) given")
	}
	if needSpokeTest && o.SpokeTestProfile == "" {
		return errors.New("no test spoke profile (--spoke-test-profile or $SPOKE_TEST_PROFILE) given")
	}

	return nil
}
