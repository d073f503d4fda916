// Package notify is the delivery boundary: the scheduler decides when a
// reminder is due, a Dispatcher decides how it reaches the user.
package notify

import (
	"context"
	"errors"
)

// ErrDispatchFailed wraps transport errors. The scheduler logs it and moves
// on; retries, if desired, belong to the transport.
var ErrDispatchFailed = errors.New("dispatch failed")

// Request is one reminder to deliver.
type Request struct {
	UserID        int64
	ReminderID    int
	ContractTitle string
	ContractBody  string
}

// Dispatcher delivers a reminder to the user's channel. Returns the channel
// message id for later cleanup, if the transport has one.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (messageID int, err error)
}
