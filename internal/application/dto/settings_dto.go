package dto

// SettingsDTO datos de la tienda.
type SettingsDTO struct {
	StoreName         string `json:"store_name"`
	StoreAddress      string `json:"store_address"`
	StoreEmail        string `json:"store_email"`
	StorePhone        string `json:"store_phone"`
	CurrencySymbol    string `json:"currency_symbol"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// UpdateSettingsRequest actualización parcial de la configuración.
type UpdateSettingsRequest struct {
	StoreName         *string `json:"store_name"`
	StoreAddress      *string `json:"store_address"`
	StoreEmail        *string `json:"store_email"`
	StorePhone        *string `json:"store_phone"`
	CurrencySymbol    *string `json:"currency_symbol"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}
