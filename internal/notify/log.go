package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of sending them. It is
// used when no mail relay is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) SendVerification(_ context.Context, to, token string) error {
	n.log.Info("verification mail", zap.String("to", to))
	n.log.Debug("verification token", zap.String("to", to), zap.String("token", token))
	return nil
}

func (n *LogNotifier) SendAdmire(_ context.Context, to string) error {
	n.log.Info("admire mail", zap.String("to", to))
	return nil
}

func (n *LogNotifier) SendMutualAdmire(_ context.Context, to, matchName string) error {
	n.log.Info("mutual admire mail", zap.String("to", to), zap.String("match", matchName))
	return nil
}
