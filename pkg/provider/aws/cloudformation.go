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
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/sirupsen/logrus"

	"github.com/awssahotay/vpc-lattice-centralized-endpoints/pkg/util/wait"

	"k8s.io/utils/ptr"
)

// GetStack returns the named stack, or nil if it does not exist.
func GetStack(ctx context.Context, client CloudFormationClient, name string) (*cfntypes.Stack, error) {
	out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: ptr.To(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to describe stack %q: %w", name, err)
	}

	if len(out.Stacks) == 0 {
		return nil, nil
	}

	return &out.Stacks[0], nil
}

// StackOutputs flattens a stack's outputs into a map.
func StackOutputs(stack *cfntypes.Stack) map[string]string {
	outputs := map[string]string{}
	for _, output := range stack.Outputs {
		outputs[ptr.Deref(output.OutputKey, "")] = ptr.Deref(output.OutputValue, "")
	}

	return outputs
}

// ReconcileStack creates the named stack from the given template unless it
// already exists in a healthy state, then waits until stack creation has
// completed and returns the stack outputs.
func ReconcileStack(ctx context.Context, logger logrus.FieldLogger, client CloudFormationClient, name, templateBody string, parameters map[string]string, interval, timeout time.Duration) (map[string]string, error) {
	stack, err := GetStack(ctx, client, name)
	if err != nil {
		return nil, err
	}

	if stack != nil {
		switch stack.StackStatus {
		case cfntypes.StackStatusCreateComplete, cfntypes.StackStatusUpdateComplete:
			logger.Debugf("Stack %s already exists, reusing it.", name)
			return StackOutputs(stack), nil

		case cfntypes.StackStatusCreateInProgress:
			// another (or an interrupted) invocation created it, just wait

		default:
			return nil, fmt.Errorf("stack %q is in unusable state %s, delete it before retrying", name, stack.StackStatus)
		}
	} else {
		input := &cloudformation.CreateStackInput{
			StackName:    ptr.To(name),
			TemplateBody: ptr.To(templateBody),
			Capabilities: []cfntypes.Capability{cfntypes.CapabilityCapabilityNamedIam},
		}

		for key, value := range parameters {
			input.Parameters = append(input.Parameters, cfntypes.Parameter{
				ParameterKey:   ptr.To(key),
				ParameterValue: ptr.To(value),
			})
		}

		if _, err := client.CreateStack(ctx, input); err != nil {
			return nil, fmt.Errorf("failed to create stack %q: %w", name, err)
		}
	}

	var outputs map[string]string

	err = wait.PollImmediateLog(ctx, logger, interval, timeout, func() (error, error) {
		stack, err := GetStack(ctx, client, name)
		if err != nil {
			return nil, err
		}
		if stack == nil {
			return nil, fmt.Errorf("stack %q disappeared while waiting for its creation", name)
		}

		switch stack.StackStatus {
		case cfntypes.StackStatusCreateComplete:
			outputs = StackOutputs(stack)
			return nil, nil

		case cfntypes.StackStatusCreateInProgress:
			return fmt.Errorf("stack %s is still %s", name, stack.StackStatus), nil

		default:
			return nil, fmt.Errorf("stack %q reached status %s: %s", name, stack.StackStatus, ptr.Deref(stack.StackStatusReason, "no reason given"))
		}
	})
	if err != nil {
		return nil, err
	}

	return outputs, nil
}

// DeleteStack deletes the named stack and waits for the deletion to finish.
// A missing stack is not an error and is reported via the bool result.
func DeleteStack(ctx context.Context, logger logrus.FieldLogger, client CloudFormationClient, name string, interval, timeout time.Duration) (bool, error) {
	stack, err := GetStack(ctx, client, name)
	if err != nil {
		return false, err
	}
	if stack == nil || stack.StackStatus == cfntypes.StackStatusDeleteComplete {
		return false, nil
	}

	if _, err := client.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: stack.StackId}); err != nil {
		return true, fmt.Errorf("failed to delete stack %q: %w", name, err)
	}

	err = wait.PollLog(ctx, logger, interval, timeout, func() (error, error) {
		// describe by stack ID so the stack remains visible after deletion
		out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: stack.StackId})
		if err != nil {
			if IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		if len(out.Stacks) == 0 {
			return nil, nil
		}

		switch out.Stacks[0].StackStatus {
		case cfntypes.StackStatusDeleteComplete:
			return nil, nil
		case cfntypes.StackStatusDeleteInProgress:
			return fmt.Errorf("stack %s is still deleting", name), nil
		default:
			return nil, fmt.Errorf("stack %q reached status %s during deletion", name, out.Stacks[0].StackStatus)
		}
	})

	return true, err
}

// ListStacksByPrefix returns all live stacks whose name contains the given
// substring.
func ListStacksByPrefix(ctx context.Context, client CloudFormationClient, prefix string) ([]cfntypes.StackSummary, error) {
	var (
		result    []cfntypes.StackSummary
		nextToken *string
	)

	for {
		out, err := client.ListStacks(ctx, &cloudformation.ListStacksInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list stacks: %w", err)
		}

		for _, summary := range out.StackSummaries {
			if summary.StackStatus == cfntypes.StackStatusDeleteComplete {
				continue
			}
			if nameContains(summary.StackName, prefix) {
				result = append(result, summary)
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return result, nil
}
