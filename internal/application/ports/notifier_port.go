package ports

import "context"

// Niveles de notificación al operador.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notifier es el puerto de salida para avisos al operador (toasts, alertas).
// Es de tipo "dispara y olvida": nunca bloquea ni devuelve error al caso de uso.
type Notifier interface {
	Notify(ctx context.Context, level, message string)
}

// NopNotifier descarta los avisos. Útil en tests y comandos.
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(context.Context, string, string) {}
