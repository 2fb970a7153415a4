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

// Package state persists the hub stage's outputs so that the spoke stages,
// which usually run as separate invocations, can consume them.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// SchemaVersion is bumped whenever the file layout changes incompatibly.
const SchemaVersion = 1

// ServiceOutputs holds the per-AWS-service identifiers produced by the hub
// stage.
type ServiceOutputs struct {
	// EndpointDNS is the regional DNS name of the interface endpoint in the
	// hub VPC.
	EndpointDNS string `json:"endpointDNS"`
	// LatticeDNS is the Lattice-internal DNS name assigned to the
	// service-network-resource association; the PHZ CNAMEs point at it.
	LatticeDNS string `json:"latticeDNS"`
	// HostedZoneID is the private override zone for the service's public
	// DNS name.
	HostedZoneID string `json:"hostedZoneID"`
	// ResourceConfigurationID identifies the Lattice resource configuration.
	ResourceConfigurationID string `json:"resourceConfigurationID"`
}

// Outputs is the full hand-off written by the hub stage.
type Outputs struct {
	SchemaVersion int    `json:"schemaVersion"`
	Prefix        string `json:"prefix"`
	Region        string `json:"region"`

	HubVPCID          string `json:"hubVPCID"`
	ServiceNetworkID  string `json:"serviceNetworkID"`
	ServiceNetworkARN string `json:"serviceNetworkARN"`
	ResourceGatewayID string `json:"resourceGatewayID"`

	Services map[string]ServiceOutputs `json:"services"`
}

// New returns empty outputs for the given deployment.
func New(prefix, region string) *Outputs {
	return &Outputs{
		SchemaVersion: SchemaVersion,
		Prefix:        prefix,
		Region:        region,
		Services:      map[string]ServiceOutputs{},
	}
}

// Load reads and validates a state file. A missing file is a fatal
// precondition for the spoke stages, so the error spells out the remedy.
func Load(path string) (*Outputs, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("state file %q does not exist, run the hub stage first", path)
		}

		return nil, fmt.Errorf("failed to read state file %q: %w", path, err)
	}

	outputs := &Outputs{}
	if err := json.Unmarshal(content, outputs); err != nil {
		return nil, fmt.Errorf("state file %q is not valid JSON: %w", path, err)
	}

	if outputs.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("state file %q has schema version %d, expected %d; re-run the hub stage", path, outputs.SchemaVersion, SchemaVersion)
	}

	return outputs, nil
}

// Save writes the outputs to disk.
func (o *Outputs) Save(path string) error {
	content, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}

	return nil
}

// Remove deletes the state file; a missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove state file %q: %w", path, err)
	}

	return nil
}
