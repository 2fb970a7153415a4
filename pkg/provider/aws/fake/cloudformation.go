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

package fake

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"k8s.io/utils/ptr"
)

type fakeStack struct {
	id           string
	name         string
	account      string
	status       cfntypes.StackStatus
	pendingPolls int
}

type cloudFormationClient struct {
	cloud   *Cloud
	account string
}

func (c *cloudFormationClient) findStack(nameOrID string) *fakeStack {
	for _, stack := range c.cloud.stacks {
		if stack.account != c.account {
			continue
		}
		if stack.name == nameOrID || stack.id == nameOrID {
			return stack
		}
	}

	return nil
}

// stackOutputs synthesizes the outputs every template in this tool provides.
func (c *cloudFormationClient) stackOutputs(stack *fakeStack) []cfntypes.Output {
	suffix := stack.id

	pairs := map[string]string{
		"VpcId":            "vpc-" + suffix,
		"PrivateSubnetIds": fmt.Sprintf("subnet-a-%s,subnet-b-%s", suffix, suffix),
		"SecurityGroupId":  "sg-" + suffix,
		"RouteTableId":     "rtb-" + suffix,
		"TestInstanceId":   "i-" + suffix,
	}

	var outputs []cfntypes.Output
	for key, value := range pairs {
		outputs = append(outputs, cfntypes.Output{
			OutputKey:   ptr.To(key),
			OutputValue: ptr.To(value),
		})
	}

	return outputs
}

func (c *cloudFormationClient) CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "cloudformation", "CreateStack")

	name := ptr.Deref(params.StackName, "")
	if existing := c.findStack(name); existing != nil && existing.status != cfntypes.StackStatusDeleteComplete {
		return nil, apiError("AlreadyExistsException", fmt.Sprintf("Stack [%s] already exists", name))
	}
	if ptr.Deref(params.TemplateBody, "") == "" {
		return nil, apiError("ValidationError", "TemplateBody must not be empty")
	}

	stack := &fakeStack{
		id:           c.cloud.newID("stack"),
		name:         name,
		account:      c.account,
		status:       cfntypes.StackStatusCreateInProgress,
		pendingPolls: c.cloud.StackReadyAfter,
	}
	c.cloud.stacks[stack.id] = stack

	return &cloudformation.CreateStackOutput{StackId: ptr.To(stack.id)}, nil
}

func (c *cloudFormationClient) DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "cloudformation", "DescribeStacks")

	name := ptr.Deref(params.StackName, "")

	stack := c.findStack(name)
	if stack == nil {
		return nil, apiError("ValidationError", fmt.Sprintf("Stack with id %s does not exist", name))
	}

	if stack.status == cfntypes.StackStatusCreateInProgress {
		if stack.pendingPolls > 0 {
			stack.pendingPolls--
		} else {
			stack.status = cfntypes.StackStatusCreateComplete
		}
	}

	result := cfntypes.Stack{
		StackId:     ptr.To(stack.id),
		StackName:   ptr.To(stack.name),
		StackStatus: stack.status,
	}
	if stack.status == cfntypes.StackStatusCreateComplete {
		result.Outputs = c.stackOutputs(stack)
	}

	return &cloudformation.DescribeStacksOutput{Stacks: []cfntypes.Stack{result}}, nil
}

func (c *cloudFormationClient) DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "cloudformation", "DeleteStack")

	if stack := c.findStack(ptr.Deref(params.StackName, "")); stack != nil {
		stack.status = cfntypes.StackStatusDeleteComplete
	}

	return &cloudformation.DeleteStackOutput{}, nil
}

func (c *cloudFormationClient) ListStacks(ctx context.Context, params *cloudformation.ListStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStacksOutput, error) {
	c.cloud.mu.Lock()
	defer c.cloud.mu.Unlock()
	c.cloud.record(c.account, "cloudformation", "ListStacks")

	var summaries []cfntypes.StackSummary
	for _, stack := range c.cloud.stacks {
		if stack.account != c.account {
			continue
		}

		summaries = append(summaries, cfntypes.StackSummary{
			StackId:     ptr.To(stack.id),
			StackName:   ptr.To(stack.name),
			StackStatus: stack.status,
		})
	}

	return &cloudformation.ListStacksOutput{StackSummaries: summaries}, nil
}
