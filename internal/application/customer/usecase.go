// Package customer contiene los casos de uso de clientes del punto de venta.
package customer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// TxRunner ejecuta fn con un repositorio de clientes atado a una transacción.
// Las modificaciones leen y escriben dentro de ella para no pisar una venta
// confirmada en paralelo.
type TxRunner interface {
	RunCustomers(ctx context.Context, fn func(repo repository.CustomerRepository) error) error
}

// CustomerUseCase casos de uso CRUD para clientes. TotalSpent solo lo mueve AddSpent.
type CustomerUseCase struct {
	txRunner TxRunner
	repo     repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner TxRunner, repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un nuevo cliente. Sin tipo queda como Regular; sin fecha de alta, hoy.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	ctype := in.CustomerType
	if ctype == "" {
		ctype = entity.CustomerRegular
	}
	if !validType(ctype) {
		return nil, fmt.Errorf("tipo de cliente %q: %w", ctype, domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	joined := in.DateJoined
	if joined == "" {
		joined = now.Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, joined); err != nil {
		return nil, fmt.Errorf("fecha de alta %q: %w", joined, domain.ErrInvalidInput)
	}
	c := &entity.Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		CustomerType: ctype,
		Address:      in.Address,
		Notes:        in.Notes,
		DateJoined:   joined,
		TotalSpent:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// GetByID obtiene un cliente. Devuelve (nil, nil) si no existe.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil || c == nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// List filtra por nombre, email, teléfono o tipo y ordena por nombre.
func (uc *CustomerUseCase) List(search string) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		if q != "" && !matches(c, q) {
			continue
		}
		out = append(out, *ToCustomerResponse(c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Update modifica los datos de contacto y el tipo. Devuelve (nil, nil) si no existe.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	var updated *entity.Customer
	err := uc.txRunner.RunCustomers(ctx, func(repo repository.CustomerRepository) error {
		c, err := repo.GetByID(id)
		if err != nil || c == nil {
			return err
		}
		if err := applyCustomerChanges(c, in); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		if err := repo.Update(c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil || updated == nil {
		return nil, err
	}
	return ToCustomerResponse(updated), nil
}

func applyCustomerChanges(c *entity.Customer, in dto.UpdateCustomerRequest) error {
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.CustomerType != nil {
		if !validType(*in.CustomerType) {
			return domain.ErrInvalidInput
		}
		c.CustomerType = *in.CustomerType
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	return nil
}

// Delete elimina un cliente. Las ventas conservan su nombre congelado.
func (uc *CustomerUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// AddSpent suma amount al total gastado del cliente usando repo, que puede estar
// atado a la transacción de una venta.
func AddSpent(repo repository.CustomerRepository, id string, amount decimal.Decimal) (*entity.Customer, error) {
	c, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
	}
	c.TotalSpent = c.TotalSpent.Add(amount).Round(2)
	c.UpdatedAt = time.Now().UTC()
	if err := repo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddSpent suma amount al total gastado del cliente fuera de una venta (correcciones).
func (uc *CustomerUseCase) AddSpent(ctx context.Context, id string, amount decimal.Decimal) (*dto.CustomerResponse, error) {
	var c *entity.Customer
	err := uc.txRunner.RunCustomers(ctx, func(repo repository.CustomerRepository) error {
		var err error
		c, err = AddSpent(repo, id, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

func validType(t string) bool {
	switch t {
	case entity.CustomerRegular, entity.CustomerVIP, entity.CustomerBusiness:
		return true
	}
	return false
}

func matches(c *entity.Customer, q string) bool {
	for _, f := range []string{c.Name, c.Email, c.Phone, c.CustomerType} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ToCustomerResponse convierte la entidad al DTO.
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		CustomerType: c.CustomerType,
		Address:      c.Address,
		Notes:        c.Notes,
		DateJoined:   c.DateJoined,
		TotalSpent:   c.TotalSpent,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
