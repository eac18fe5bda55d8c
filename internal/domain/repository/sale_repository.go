package repository

import "github.com/jhoicas/shop-erp/internal/domain/entity"

// SaleRepository persiste ventas inmutables: no expone Update ni Delete.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List() ([]*entity.Sale, error)
}
