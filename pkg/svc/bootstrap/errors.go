package bootstrap

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/k3d-manager/pkg/k8s/readiness"
)

var (
	// ErrClusterCreate matches cluster creation failures.
	ErrClusterCreate = errors.New("cluster creation failed")
	// ErrStepAction matches manifest apply and package install failures.
	ErrStepAction = errors.New("step action failed")
	// ErrReadinessTimeout matches readiness waits that exceeded their bound.
	ErrReadinessTimeout = errors.New("readiness wait timed out")
	// ErrFallbackExhausted matches steps with neither an external nor a default payload.
	ErrFallbackExhausted = errors.New("no payload available")
)

// ClusterCreateError reports a failed cluster creation. No later step runs.
type ClusterCreateError struct {
	Cluster string
	Err     error
}

func (e *ClusterCreateError) Error() string {
	return fmt.Sprintf("create cluster %q: %v", e.Cluster, e.Err)
}

func (e *ClusterCreateError) Unwrap() error { return e.Err }

// Is matches ErrClusterCreate.
func (e *ClusterCreateError) Is(target error) bool { return target == ErrClusterCreate }

// StepActionError reports a failed manifest apply or package install.
type StepActionError struct {
	Step string
	Err  error
}

func (e *StepActionError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepActionError) Unwrap() error { return e.Err }

// Is matches ErrStepAction.
func (e *StepActionError) Is(target error) bool { return target == ErrStepAction }

// ReadinessTimeoutError reports a readiness wait that exceeded its bound.
type ReadinessTimeoutError struct {
	Step      string
	Selector  string
	Namespace string
	Err       error
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("step %s: pods %q in namespace %s not ready: %v", e.Step, e.Selector, e.Namespace, e.Err)
}

func (e *ReadinessTimeoutError) Unwrap() error { return e.Err }

// Is matches ErrReadinessTimeout and readiness.ErrTimeoutExceeded.
func (e *ReadinessTimeoutError) Is(target error) bool {
	return target == ErrReadinessTimeout || target == readiness.ErrTimeoutExceeded
}

// FallbackExhaustedError reports a step for which no payload could be resolved.
type FallbackExhaustedError struct {
	Step string
	Err  error
}

func (e *FallbackExhaustedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("step %s: %v", e.Step, ErrFallbackExhausted)
	}

	return fmt.Sprintf("step %s: %v: %v", e.Step, ErrFallbackExhausted, e.Err)
}

func (e *FallbackExhaustedError) Unwrap() error { return e.Err }

// Is matches ErrFallbackExhausted.
func (e *FallbackExhaustedError) Is(target error) bool { return target == ErrFallbackExhausted }
