package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
)

func TestLocationRepository_RegistroPorDefecto(t *testing.T) {
	repo := memory.NewLocationRepository()

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, entity.LocationMainOffice, list[0].ID)

	shop, err := repo.GetByID(entity.LocationShopMall)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.True(t, shop.IsShop())

	missing, err := repo.GetByID("luna")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLocationRepository_ListDevuelveCopia(t *testing.T) {
	repo := memory.NewLocationRepository()
	list, _ := repo.List()
	list[0].Name = "cambiado"

	again, _ := repo.GetByID(entity.LocationMainOffice)
	assert.NotEqual(t, "cambiado", again.Name)
}

func TestUserRepository_EmailUnicoSinMayusculas(t *testing.T) {
	repo := memory.NewUserRepository()
	require.NoError(t, repo.Create(&entity.User{ID: "u1", Email: "Ana@Tienda.com", Role: entity.RoleAdmin}))

	err := repo.Create(&entity.User{ID: "u2", Email: "ana@tienda.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := repo.GetByEmail("ANA@tienda.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	none, err := repo.GetByID("u9")
	require.NoError(t, err)
	assert.Nil(t, none)
}
