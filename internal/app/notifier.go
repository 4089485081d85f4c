package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

// logNotifier reports ringing alarms to the log when no chat is configured.
// The quiz is then answered over the REST API or with the practice command.
type logNotifier struct {
	logger *zap.Logger
}

var _ service.AlarmNotifier = (*logNotifier)(nil)

func newLogNotifier(logger *zap.Logger) *logNotifier {
	return &logNotifier{logger: logger.Named("alarm")}
}

func (n *logNotifier) NotifyAlarm(_ context.Context, alarm *entities.Alarm, question *entities.Word, sound string) error {
	n.logger.Warn("alarm ringing",
		zap.String("alarm_id", alarm.ID.String()),
		zap.String("time", alarm.TimeString()),
		zap.String("label", alarm.Label),
		zap.String("sound", sound),
		zap.String("question", question.Question),
	)
	return nil
}

func (n *logNotifier) NotifyRinging(_ context.Context, alarm *entities.Alarm, question *entities.Word) error {
	n.logger.Warn("alarm still ringing",
		zap.String("alarm_id", alarm.ID.String()),
		zap.String("question", question.Question),
	)
	return nil
}

func (n *logNotifier) NotifyEmptyDeck(_ context.Context, alarm *entities.Alarm) error {
	n.logger.Warn("alarm ringing with an empty deck, stop it with POST /api/v1/ringing/stop",
		zap.String("alarm_id", alarm.ID.String()),
	)
	return nil
}

func (n *logNotifier) NotifyStopped(_ context.Context, alarm *entities.Alarm, reason service.StopReason) error {
	n.logger.Info("alarm stopped",
		zap.String("alarm_id", alarm.ID.String()),
		zap.String("reason", string(reason)),
	)
	return nil
}
