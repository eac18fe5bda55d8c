package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

func demoProducts() []dto.CreateProductRequest {
	return []dto.CreateProductRequest{
		{
			SKU: "LT001", SerialNumber: "SN-INVTX1-001", Category: "Laptop",
			Brand: "Innovatech", Model: "Spectre X1", Condition: "New",
			Description: "Ultrabook con pantalla OLED y funciones de IA.",
			Supplier:    "TechDistributors Inc.", Warranty: "2 años internacional",
			ImageURL:     "https://placehold.co/300x200/D4AF37/000000?text=Spectre+X1",
			Tags:         "ultrabook,premium,ai,business,oled,laptop",
			Attributes:   json.RawMessage(`{"cpu":"Intel Core i9","ram":"32GB DDR5","ssd":"2TB NVMe Gen4"}`),
			BasePrice:    decimal.NewFromInt(1800),
			SellingPrice: decimal.RequireFromString("2499.99"),
			BestPrice:    decimal.NewFromInt(2350),
			InitialStock: map[string]int{entity.LocationShopDowntown: 3, entity.LocationShopMall: 2},
		},
		{
			SKU: "PC002", SerialNumber: "SN-CYBRGT-001", Category: "Desktop PC",
			Brand: "CyberBuild", Model: "Gaming Rig Titan II", Condition: "New",
			Description: "Equipo de escritorio para juegos en 4K con refrigeración líquida.",
			Supplier:    "PC Parts Global", Warranty: "1 año componentes",
			Tags:         "gaming,desktop,high-performance",
			Attributes:   json.RawMessage(`{"cpu":"AMD Ryzen 9 7950X3D","ram":"64GB DDR5"}`),
			BasePrice:    decimal.NewFromInt(2200),
			SellingPrice: decimal.NewFromInt(3199),
			BestPrice:    decimal.NewFromInt(3000),
			InitialStock: map[string]int{entity.LocationCentralWarehouse: 3},
		},
		{
			SKU: "ACC003", SerialNumber: "SN-CNCTEM-001", Category: "Mouse",
			Brand: "ConnectTech", Model: "ErgoPro Wireless", Condition: "New",
			Description: "Mouse inalámbrico ergonómico con 8 botones programables.",
			Supplier:    "OfficeGoods Ltd.", Warranty: "90 días",
			Tags:         "ergonomic,wireless,office,mouse",
			BasePrice:    decimal.NewFromInt(45),
			SellingPrice: decimal.RequireFromString("79.99"),
			BestPrice:    decimal.NewFromInt(70),
		},
	}
}

func demoCustomers() []dto.CreateCustomerRequest {
	return []dto.CreateCustomerRequest{
		{
			Name: "Alice Goldwin", Email: "alice.g@example.com", Phone: "555-0101",
			CustomerType: entity.CustomerVIP, Address: "123 Luxury Lane, Gold City",
			Notes: "Cliente frecuente, prefiere productos premium.", DateJoined: "2023-05-15",
		},
		{
			Name: "Robert Blackwood", Email: "bob.b@example.com", Phone: "555-0102",
			CustomerType: entity.CustomerBusiness, Address: "456 Onyx St, Obsidian Town",
			Notes: "Compra por volumen para su empresa.", DateJoined: "2023-08-20",
		},
	}
}

type demoSale struct {
	location string
	sku      string
	customer int
	discount decimal.Decimal
}

// Seed carga productos, clientes y ventas de demostración si nunca se hizo.
// Las ventas pasan por el carrito, así que dejan sus movimientos en el libro.
// Devuelve false si los datos ya estaban sembrados.
func (uc *UseCase) Seed(ctx context.Context) (bool, error) {
	if uc.store.IsSeeded() {
		return false, nil
	}

	productIDs := make(map[string]string)
	for _, in := range demoProducts() {
		p, err := uc.products.Create(ctx, SeedUserID, in)
		if err != nil {
			return false, fmt.Errorf("sembrar producto %s: %w", in.SKU, err)
		}
		productIDs[p.SKU] = p.ID
	}

	customerIDs := make([]string, 0, 2)
	for _, in := range demoCustomers() {
		c, err := uc.customers.Create(in)
		if err != nil {
			return false, fmt.Errorf("sembrar cliente %s: %w", in.Name, err)
		}
		customerIDs = append(customerIDs, c.ID)
	}

	sales := []demoSale{
		{location: entity.LocationShopDowntown, sku: "LT001", customer: 0, discount: decimal.Zero},
		{location: entity.LocationShopMall, sku: "LT001", customer: 1, discount: decimal.NewFromInt(5)},
	}
	defer uc.carts.Drop(SeedUserID)
	for _, s := range sales {
		if err := uc.seedSale(ctx, s, productIDs[s.sku], customerIDs[s.customer]); err != nil {
			return false, err
		}
	}

	if err := uc.store.MarkSeeded(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *UseCase) seedSale(ctx context.Context, s demoSale, productID, customerID string) error {
	if _, err := uc.cart.SetLocation(SeedUserID, s.location); err != nil {
		return fmt.Errorf("venta de demostración: %w", err)
	}
	if _, err := uc.cart.AddLine(SeedUserID, productID); err != nil {
		return fmt.Errorf("venta de demostración: %w", err)
	}
	if _, err := uc.cart.SetCustomer(SeedUserID, &customerID); err != nil {
		return fmt.Errorf("venta de demostración: %w", err)
	}
	if !s.discount.IsZero() {
		if _, err := uc.cart.ApplyDiscount(SeedUserID, s.discount); err != nil {
			return fmt.Errorf("venta de demostración: %w", err)
		}
	}
	if _, err := uc.cart.Commit(ctx, SeedUserID); err != nil {
		return fmt.Errorf("venta de demostración: %w", err)
	}
	return nil
}
