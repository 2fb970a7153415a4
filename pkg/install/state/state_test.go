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

package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")

	outputs := New("central-vpce", "eu-west-1")
	outputs.HubVPCID = "vpc-123"
	outputs.ServiceNetworkID = "sn-123"
	outputs.ServiceNetworkARN = "arn:aws:vpc-lattice:eu-west-1:000000000000:servicenetwork/sn-123"
	outputs.ResourceGatewayID = "rgw-123"
	outputs.Services["ssm"] = ServiceOutputs{
		EndpointDNS:             "vpce-1.vpce.amazonaws.com",
		LatticeDNS:              "rcfg-1.sn-123.vpc-lattice-rsc.eu-west-1.on.aws",
		HostedZoneID:            "Z123",
		ResourceConfigurationID: "rcfg-1",
	}

	if err := outputs.Save(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if diff := cmp.Diff(outputs, loaded); diff != "" {
		t.Fatalf("loaded outputs differ from saved outputs:\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "run the hub stage first") {
		t.Fatalf("expected the error to point at the hub stage, got: %v", err)
	}
}

func TestLoadRejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")

	if err := os.WriteFile(path, []byte(`{"schemaVersion": 42}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown schema version")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")

	if err := os.WriteFile(path, []byte("surprise"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestRemoveMissingFile(t *testing.T) {
	if err := Remove(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("expected removing a missing file to succeed, got %v", err)
	}
}
