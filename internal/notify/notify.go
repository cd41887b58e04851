// Package notify delivers the emails triggered by account and admiration
// events.
package notify

import "context"

type Notifier interface {
	SendVerification(ctx context.Context, to, token string) error
	SendAdmire(ctx context.Context, to string) error
	SendMutualAdmire(ctx context.Context, to, matchName string) error
}
