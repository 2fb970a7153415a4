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
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	complete := Options{
		Region:           "eu-west-1",
		Prefix:           "central-vpce",
		HubProfile:       "hub",
		SpokeDevProfile:  "dev",
		SpokeTestProfile: "test",
	}

	testcases := []struct {
		name          string
		mutate        func(o *Options)
		needSpokeDev  bool
		needSpokeTest bool
		expectErr     bool
	}{
		{
			name:          "everything set",
			mutate:        func(o *Options) {},
			needSpokeDev:  true,
			needSpokeTest: true,
		},
		{
			name:      "missing region",
			mutate:    func(o *Options) { o.Region = "" },
			expectErr: true,
		},
		{
			name:      "missing hub credentials",
			mutate:    func(o *Options) { o.HubProfile = "" },
			expectErr: true,
		},
		{
			name: "static hub credentials instead of a profile",
			mutate: func(o *Options) {
				o.HubProfile = ""
				o.HubAccessKeyID = "AKIAEXAMPLE"
				o.HubSecretAccessKey = "secret"
			},
		},
		{
			name: "access key without a secret",
			mutate: func(o *Options) {
				o.HubProfile = ""
				o.HubAccessKeyID = "AKIAEXAMPLE"
			},
			expectErr: true,
		},
		{
			name:         "missing dev profile when needed",
			mutate:       func(o *Options) { o.SpokeDevProfile = "" },
			needSpokeDev: true,
			expectErr:    true,
		},
		{
			name:   "missing dev profile when not needed",
			mutate: func(o *Options) { o.SpokeDevProfile = "" },
		},
		{
			name:          "missing test profile when needed",
			mutate:        func(o *Options) { o.SpokeTestProfile = "" },
			needSpokeTest: true,
			expectErr:     true,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			opt := complete
			testcase.mutate(&opt)

			err := opt.Validate(testcase.needSpokeDev, testcase.needSpokeTest)
			if testcase.expectErr && err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !testcase.expectErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestOptionsApplyEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("VPCE_PREFIX", "")
	t.Setenv("HUB_PROFILE", "hub-profile")
	t.Setenv("VPCE_STATE_FILE", "")

	opt := Options{}
	opt.ApplyEnvironment()

	if opt.Region != "eu-central-1" {
		t.Errorf("expected region from environment, got %q", opt.Region)
	}
	if opt.HubProfile != "hub-profile" {
		t.Errorf("expected hub profile from environment, got %q", opt.HubProfile)
	}
	if opt.Prefix != "central-vpce" {
		t.Errorf("expected the default prefix, got %q", opt.Prefix)
	}
	if opt.StateFile != "./central-vpce-outputs.json" {
		t.Errorf("expected the state file to default based on the prefix, got %q", opt.StateFile)
	}

	// explicit flags win over the environment
	opt = Options{Region: "eu-west-1"}
	opt.ApplyEnvironment()

	if opt.Region != "eu-west-1" {
		t.Errorf("expected the flag value to win, got %q", opt.Region)
	}

	// a configured profile means the static keys are left alone
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	opt = Options{}
	opt.ApplyEnvironment()

	if opt.HubAccessKeyID != "" || opt.HubSecretAccessKey != "" {
		t.Error("expected static keys to be ignored while a hub profile is configured")
	}

	t.Setenv("HUB_PROFILE", "")

	opt = Options{}
	opt.ApplyEnvironment()

	if opt.HubAccessKeyID != "AKIAEXAMPLE" || opt.HubSecretAccessKey != "secret" {
		t.Errorf("expected static keys from the environment, got %q / %q", opt.HubAccessKeyID, opt.HubSecretAccessKey)
	}
}
