// Package location expone el registro estático de ubicaciones.
package location

import (
	"fmt"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// LocationUseCase consultas sobre las ubicaciones y las ubicaciones por defecto.
type LocationUseCase struct {
	repo       repository.LocationRepository
	defaultPOS string
	intake     string
}

// NewLocationUseCase construye el caso de uso. Valida que las ubicaciones por defecto existan.
func NewLocationUseCase(repo repository.LocationRepository, defaultPOS, intake string) (*LocationUseCase, error) {
	uc := &LocationUseCase{repo: repo, defaultPOS: defaultPOS, intake: intake}
	pos, err := uc.Get(defaultPOS)
	if err != nil {
		return nil, fmt.Errorf("ubicación de venta por defecto: %w", err)
	}
	if !pos.IsShop() {
		return nil, fmt.Errorf("ubicación de venta por defecto %q no es una tienda: %w", defaultPOS, domain.ErrInvalidLocation)
	}
	if _, err := uc.Get(intake); err != nil {
		return nil, fmt.Errorf("ubicación de recepción por defecto: %w", err)
	}
	return uc, nil
}

// List todas las ubicaciones en orden de registro.
func (uc *LocationUseCase) List() ([]entity.Location, error) {
	return uc.repo.List()
}

// Get devuelve la ubicación o ErrInvalidLocation si no existe.
func (uc *LocationUseCase) Get(id string) (entity.Location, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return entity.Location{}, err
	}
	if loc == nil {
		return entity.Location{}, fmt.Errorf("%q: %w", id, domain.ErrInvalidLocation)
	}
	return *loc, nil
}

// Exists indica si la ubicación está registrada.
func (uc *LocationUseCase) Exists(id string) bool {
	loc, err := uc.repo.GetByID(id)
	return err == nil && loc != nil
}

// DefaultPOS ubicación de venta por defecto.
func (uc *LocationUseCase) DefaultPOS() entity.Location {
	loc, _ := uc.Get(uc.defaultPOS)
	return loc
}

// DefaultIntake ubicación que recibe mercancía sin ubicación explícita.
func (uc *LocationUseCase) DefaultIntake() entity.Location {
	loc, _ := uc.Get(uc.intake)
	return loc
}
