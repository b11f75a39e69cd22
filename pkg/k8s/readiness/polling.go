package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultPollInterval is the interval between readiness checks.
const DefaultPollInterval = 2 * time.Second

// PollForReadiness calls check every DefaultPollInterval until it reports true,
// returns an error, or the deadline passes. The first check runs immediately.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	check func(context.Context) (bool, error),
) error {
	return PollForReadinessWithInterval(ctx, deadline, DefaultPollInterval, check)
}

// PollForReadinessWithInterval is PollForReadiness with a custom interval.
func PollForReadinessWithInterval(
	ctx context.Context,
	deadline time.Duration,
	interval time.Duration,
	check func(context.Context) (bool, error),
) error {
	pollCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	err := wait.PollUntilContextCancel(pollCtx, interval, true, check)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("readiness polling cancelled: %w", ctx.Err())
	}

	if wait.Interrupted(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeoutExceeded, deadline)
	}

	return fmt.Errorf("readiness check failed: %w", err)
}
