package repository

import "github.com/jhoicas/shop-erp/internal/domain/entity"

// SettingsRepository guarda la configuración de la tienda.
type SettingsRepository interface {
	Get() (entity.Settings, error)
	Save(settings entity.Settings) error
}
