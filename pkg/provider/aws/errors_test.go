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
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func apiErr(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func TestIsNotFound(t *testing.T) {
	testcases := []struct {
		err      error
		expected bool
	}{
		{apiErr("ResourceNotFoundException", "gone"), true},
		{apiErr("NoSuchHostedZone", "gone"), true},
		{apiErr("UnknownResourceException", "gone"), true},
		{apiErr("VPCAssociationNotFound", "gone"), true},
		{apiErr("ValidationError", "Stack with id foo does not exist"), true},
		{apiErr("ValidationError", "TemplateBody must not be empty"), false},
		{apiErr("ThrottlingException", "rate exceeded"), false},
		{fmt.Errorf("wrapped: %w", apiErr("ResourceNotFoundException", "gone")), true},
		{errors.New("plain error"), false},
		{nil, false},
	}

	for _, testcase := range testcases {
		if actual := IsNotFound(testcase.err); actual != testcase.expected {
			t.Errorf("IsNotFound(%v) = %v, expected %v", testcase.err, actual, testcase.expected)
		}
	}
}

func TestIsThrottled(t *testing.T) {
	testcases := []struct {
		err      error
		expected bool
	}{
		{apiErr("ThrottlingException", "rate exceeded"), true},
		{apiErr("Throttling", "rate exceeded"), true},
		{apiErr("TooManyRequestsException", "slow down"), true},
		{apiErr("RequestLimitExceeded", "slow down"), true},
		{apiErr("ResourceNotFoundException", "gone"), false},
		{fmt.Errorf("wrapped: %w", apiErr("Throttling", "rate exceeded")), true},
		{nil, false},
	}

	for _, testcase := range testcases {
		if actual := IsThrottled(testcase.err); actual != testcase.expected {
			t.Errorf("IsThrottled(%v) = %v, expected %v", testcase.err, actual, testcase.expected)
		}
	}
}

func TestIsAlreadyAssociated(t *testing.T) {
	testcases := []struct {
		err      error
		expected bool
	}{
		{apiErr("ConflictingDomainExists", "the VPC is already associated"), true},
		{apiErr("ConflictException", "vpc-123 is already associated with zone Z1"), true},
		{apiErr("ConflictException", "name is taken"), false},
		{apiErr("ResourceNotFoundException", "gone"), false},
		{nil, false},
	}

	for _, testcase := range testcases {
		if actual := IsAlreadyAssociated(testcase.err); actual != testcase.expected {
			t.Errorf("IsAlreadyAssociated(%v) = %v, expected %v", testcase.err, actual, testcase.expected)
		}
	}
}
