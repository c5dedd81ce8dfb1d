package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier records score drift through the structured log. Mail or webhook
// delivery belongs to the calling layer behind the same port.
type LogNotifier struct {
	Log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) ScoreChanged(_ context.Context, registrable string, previous, current int) error {
	n.Log.Info("risk score changed",
		zap.String("domain", registrable),
		zap.Int("previous", previous),
		zap.Int("current", current))
	return nil
}
