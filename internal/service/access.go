package service

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/apperr"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// Events receives activity events.  Publishing must not block.
type Events interface {
	Publish(ev queue.ActivityEvent)
}

func requireUser(ctx context.Context, req *model.User) error {
	return signedIn.Evaluate(ctx, policy.Request{Requester: req})
}

// required turns the fields that are false in present into a validation
// error.
func required(present map[string]bool) error {
	fields := map[string]string{}
	for name, ok := range present {
		if !ok {
			fields[name] = "this field is required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation("missing required fields", fields)
}
