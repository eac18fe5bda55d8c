package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const catalogHeader = "sku;category;brand;model;base_price;selling_price;best_price;quantity;location\n"

func TestReadCatalog_UTF8(t *testing.T) {
	src := catalogHeader +
		"KB010;Keyboard;KeyMaster;Mecánico TKL;35,50;59.99;55;4;shop-mall\n" +
		"CB020;Cable;Linky;USB-C 2m;2;6;;;\n"

	rows, err := readCatalog(strings.NewReader(src), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "KB010", rows[0].SKU)
	assert.Equal(t, "Mecánico TKL", rows[0].Model)
	assert.True(t, decimal.RequireFromString("35.50").Equal(rows[0].BasePrice), "la coma decimal se acepta")
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, "shop-mall", rows[0].LocationID)

	assert.Equal(t, 0, rows[1].Quantity)
	assert.True(t, rows[1].BestPrice.IsZero())
	assert.Empty(t, rows[1].LocationID, "sin ubicación se usa la de ingreso por defecto")
}

func TestReadCatalog_Latin1(t *testing.T) {
	src := catalogHeader + "MN030;Monitor;Visión;Pantalla 27\";200;320;300;1;central-warehouse\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := readCatalog(bytes.NewBufferString(encoded), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Visión", rows[0].Brand)
}

func TestReadCatalog_ColumnaFaltante(t *testing.T) {
	_, err := readCatalog(strings.NewReader("sku;category\nA;B\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brand")
}

func TestReadCatalog_CantidadInvalida(t *testing.T) {
	src := catalogHeader + "X1;Cat;Brand;Model;1;2;2;-3;shop-mall\n"
	_, err := readCatalog(strings.NewReader(src), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}
