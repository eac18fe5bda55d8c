package checkout

import "sync"

// Registry guarda un carrito por usuario autenticado. Se crea al primer uso
// en la ubicación de venta por defecto.
type Registry struct {
	mu              sync.Mutex
	carts           map[string]*Cart
	defaultLocation string
}

// NewRegistry crea el registro de carritos.
func NewRegistry(defaultLocation string) *Registry {
	return &Registry{carts: make(map[string]*Cart), defaultLocation: defaultLocation}
}

// Get devuelve el carrito del usuario, creándolo si no existe.
func (r *Registry) Get(userID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = NewCart(r.defaultLocation)
		r.carts[userID] = c
	}
	return c
}

// Drop descarta el carrito del usuario (cierre de sesión).
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
}

// DropAll descarta todos los carritos (tras un reset o una importación).
func (r *Registry) DropAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = make(map[string]*Cart)
}
