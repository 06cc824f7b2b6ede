package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/pkg/api"
)

// Timeouts configures TimeoutInterceptor.
type Timeouts struct {
	Default      time.Duration
	LargePayload time.Duration
	// Threshold is the embedded image length above which LargePayload applies.
	Threshold int
}

// For returns the timeout for a request message.
func (t Timeouts) For(msg any) time.Duration {
	if p, ok := msg.(api.ImagePayload); ok && p.EmbeddedImageSize() > t.Threshold {
		return t.LargePayload
	}
	return t.Default
}

// TimeoutInterceptor bounds each RPC with a deadline chosen by payload size.
// A call that fails after its deadline passed is reported as a timeout.
func TimeoutInterceptor(t Timeouts) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			timeout := t.For(req.Any())
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			resp, err := next(ctx, req)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				slog.Warn("RPC timed out",
					"procedure", req.Spec().Procedure,
					"timeout", timeout,
				)
				return nil, apperrors.ToConnect(apperrors.Timeout(
					fmt.Sprintf("request timed out after %s; try a smaller image", timeout), err))
			}
			return resp, err
		}
	}
}
