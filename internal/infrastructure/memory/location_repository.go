package memory

import (
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepository)(nil)

// LocationRepository registro fijo de ubicaciones. No admite altas ni bajas.
type LocationRepository struct {
	locations []entity.Location
}

// DefaultLocations oficina, bodega y las dos tiendas.
func DefaultLocations() []entity.Location {
	return []entity.Location{
		{ID: entity.LocationMainOffice, Name: "Oficina principal", Type: entity.LocationTypeOffice, Address: "Av. Central 100"},
		{ID: entity.LocationCentralWarehouse, Name: "Bodega central", Type: entity.LocationTypeWarehouse, Address: "Zona industrial, lote 7"},
		{ID: entity.LocationShopDowntown, Name: "Tienda Centro", Type: entity.LocationTypeShop, Address: "Calle 10 #4-20"},
		{ID: entity.LocationShopMall, Name: "Tienda Centro Comercial", Type: entity.LocationTypeShop, Address: "CC Plaza, local 215"},
	}
}

// NewLocationRepository crea el registro. Sin ubicaciones usa DefaultLocations.
func NewLocationRepository(locations ...entity.Location) *LocationRepository {
	if len(locations) == 0 {
		locations = DefaultLocations()
	}
	return &LocationRepository{locations: append([]entity.Location(nil), locations...)}
}

// List devuelve una copia del registro en orden fijo.
func (r *LocationRepository) List() ([]entity.Location, error) {
	return append([]entity.Location(nil), r.locations...), nil
}

// GetByID devuelve (nil, nil) si la ubicación no existe.
func (r *LocationRepository) GetByID(id string) (*entity.Location, error) {
	for _, l := range r.locations {
		if l.ID == id {
			loc := l
			return &loc, nil
		}
	}
	return nil, nil
}
