package repository

import "github.com/jhoicas/shop-erp/internal/domain/entity"

// LocationRepository registro de ubicaciones de solo lectura.
type LocationRepository interface {
	List() ([]entity.Location, error)
	GetByID(id string) (*entity.Location, error)
}
