// Package settings administra los datos de la tienda y los umbrales de inventario.
package settings

import (
	"strings"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// SettingsUseCase lectura y actualización de la configuración de la tienda.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get devuelve la configuración vigente.
func (uc *SettingsUseCase) Get() (*dto.SettingsDTO, error) {
	s, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	return toDTO(s), nil
}

// Update aplica los campos informados. El símbolo de moneda no puede quedar vacío
// y el umbral de stock bajo no puede ser negativo.
func (uc *SettingsUseCase) Update(in dto.UpdateSettingsRequest) (*dto.SettingsDTO, error) {
	s, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if in.StoreName != nil {
		s.StoreName = strings.TrimSpace(*in.StoreName)
	}
	if in.StoreAddress != nil {
		s.StoreAddress = *in.StoreAddress
	}
	if in.StoreEmail != nil {
		s.StoreEmail = *in.StoreEmail
	}
	if in.StorePhone != nil {
		s.StorePhone = *in.StorePhone
	}
	if in.CurrencySymbol != nil {
		if err := setCurrency(&s, *in.CurrencySymbol); err != nil {
			return nil, err
		}
	}
	if in.LowStockThreshold != nil {
		if err := setThreshold(&s, *in.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Save(s); err != nil {
		return nil, err
	}
	return toDTO(s), nil
}

// UpdateCurrencySymbol cambia solo el símbolo de moneda.
func (uc *SettingsUseCase) UpdateCurrencySymbol(symbol string) error {
	return uc.mutate(func(s *entity.Settings) error { return setCurrency(s, symbol) })
}

// UpdateLowStockThreshold cambia solo el umbral de stock bajo.
func (uc *SettingsUseCase) UpdateLowStockThreshold(n int) error {
	return uc.mutate(func(s *entity.Settings) error { return setThreshold(s, n) })
}

func (uc *SettingsUseCase) mutate(fn func(s *entity.Settings) error) error {
	s, err := uc.repo.Get()
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}
	return uc.repo.Save(s)
}

func setCurrency(s *entity.Settings, symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return domain.ErrInvalidInput
	}
	s.CurrencySymbol = symbol
	return nil
}

func setThreshold(s *entity.Settings, n int) error {
	if n < 0 {
		return domain.ErrInvalidQuantity
	}
	s.LowStockThreshold = n
	return nil
}

func toDTO(s entity.Settings) *dto.SettingsDTO {
	return &dto.SettingsDTO{
		StoreName:         s.StoreName,
		StoreAddress:      s.StoreAddress,
		StoreEmail:        s.StoreEmail,
		StorePhone:        s.StorePhone,
		CurrencySymbol:    s.CurrencySymbol,
		LowStockThreshold: s.LowStockThreshold,
	}
}
