package memory

import (
	"strings"
	"sync"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository directorio de usuarios en memoria del proceso.
// Se siembra al arrancar con los usuarios de la configuración.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*entity.User
	email map[string]string
}

// NewUserRepository crea el directorio vacío.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]*entity.User),
		email: make(map[string]string),
	}
}

func (r *UserRepository) Create(user *entity.User) error {
	if user == nil || user.ID == "" || user.Email == "" {
		return domain.ErrInvalidInput
	}
	key := strings.ToLower(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.email[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	u := *user
	r.byID[u.ID] = &u
	r.email[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	c := *r.byID[id]
	return &c, nil
}
