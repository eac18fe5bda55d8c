package entity

// Tipos de ubicación que pueden tener stock.
const (
	LocationTypeOffice    = "office"
	LocationTypeWarehouse = "warehouse"
	LocationTypeShop      = "shop"
)

// Ubicaciones registradas.
const (
	LocationMainOffice       = "main-office"
	LocationCentralWarehouse = "central-warehouse"
	LocationShopDowntown     = "shop-downtown"
	LocationShopMall         = "shop-mall"
)

// Location representa un sitio con stock: oficina, bodega o tienda.
// El registro es estático; no se modifica en tiempo de ejecución.
type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
}

// IsShop indica si la ubicación puede operar como punto de venta.
func (l Location) IsShop() bool { return l.Type == LocationTypeShop }
