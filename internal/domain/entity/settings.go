package entity

// DefaultLowStockThreshold umbral de stock bajo si no se configura otro.
const DefaultLowStockThreshold = 5

// Settings datos de la tienda y umbrales de inventario.
type Settings struct {
	StoreName         string `json:"storeName"`
	StoreAddress      string `json:"storeAddress"`
	StoreEmail        string `json:"storeEmail"`
	StorePhone        string `json:"storePhone"`
	CurrencySymbol    string `json:"currencySymbol"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// DefaultSettings valores iniciales de la tienda.
func DefaultSettings() Settings {
	return Settings{
		StoreName:         "Tech Store Pro Max",
		StoreAddress:      "123 Tech Avenue, Circuit City",
		StoreEmail:        "contact@techstorepromax.com",
		StorePhone:        "+1-555-TECH-PRO",
		CurrencySymbol:    "$",
		LowStockThreshold: DefaultLowStockThreshold,
	}
}
