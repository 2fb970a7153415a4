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

package stack

import "fmt"

// All resources are idempotent singletons per prefix and region; these
// helpers are the single source for their names.

func HubNetworkStackName(prefix string) string {
	return fmt.Sprintf("%s-hub-network", prefix)
}

func SpokeStackName(prefix, environment string) string {
	return fmt.Sprintf("%s-spoke-%s", prefix, environment)
}

func ServiceNetworkName(prefix string) string {
	return fmt.Sprintf("%s-service-network", prefix)
}

func ResourceGatewayName(prefix string) string {
	return fmt.Sprintf("%s-rgw", prefix)
}

func ResourceShareName(prefix string) string {
	return fmt.Sprintf("%s-share", prefix)
}

func S3GatewayEndpointName(prefix string) string {
	return fmt.Sprintf("%s-vpce-s3", prefix)
}
