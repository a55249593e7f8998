// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Timer is the subset of StandardObserver that pipeline code depends on.
type Timer interface {
	StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{})
}

var _ Timer = (*StandardObserver)(nil)
