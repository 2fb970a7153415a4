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

package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return ""
}

func apiErrorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}

	return ""
}

// IsNotFound matches the various "no such resource" conditions across the
// service APIs this tool talks to.
func IsNotFound(err error) bool {
	switch apiErrorCode(err) {
	case "ResourceNotFoundException", "NotFoundException", "NoSuchHostedZone", "UnknownResourceException", "InvalidVpcEndpointId.NotFound", "VPCAssociationAuthorizationNotFound", "VPCAssociationNotFound":
		return true
	case "ValidationError":
		// CloudFormation reports a missing stack as a validation error.
		return strings.Contains(apiErrorMessage(err), "does not exist")
	}

	return false
}

// IsThrottled matches the rate-limiting conditions that warrant a bounded
// retry.
func IsThrottled(err error) bool {
	switch apiErrorCode(err) {
	case "ThrottlingException", "Throttling", "TooManyRequestsException", "RequestLimitExceeded":
		return true
	}

	return false
}

// IsAlreadyAssociated matches the Route53 conflict that is reported when a
// VPC is associated with a hosted zone it is already a member of. Callers
// treat this as success.
func IsAlreadyAssociated(err error) bool {
	code := apiErrorCode(err)
	if code == "ConflictingDomainExists" {
		return true
	}

	if code == "ConflictException" || code == "InvalidVPCId" || code == "PublicZoneVPCAssociation" {
		return strings.Contains(apiErrorMessage(err), "already associated")
	}

	return strings.Contains(apiErrorMessage(err), "is already associated with")
}
