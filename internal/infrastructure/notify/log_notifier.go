package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier publica los avisos al operador como eventos de log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador sobre el logger de la aplicación.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify registra el aviso con el nivel de log equivalente. Nunca falla.
func (n *LogNotifier) Notify(_ context.Context, level, message string) {
	var ev *zerolog.Event
	switch level {
	case ports.LevelError:
		ev = n.log.Error()
	case ports.LevelWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("component", "notifier").Str("notification", level).Msg(message)
}
