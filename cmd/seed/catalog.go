package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/shop-erp/internal/application/dto"
)

// columnas del catálogo, en este orden; la fila de encabezado es obligatoria.
var catalogColumns = []string{
	"sku", "category", "brand", "model", "base_price", "selling_price", "best_price", "quantity", "location",
}

// readCatalog convierte un CSV separado por ';' en solicitudes de alta.
// Con latin1 el archivo se decodifica desde ISO-8859-1 (exportaciones de planillas antiguas).
func readCatalog(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		req, err := parseRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range catalogColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int) (dto.CreateProductRequest, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	price := func(col string) (decimal.Decimal, error) {
		v := get(col)
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s %q: %w", col, v, err)
		}
		return d, nil
	}

	req := dto.CreateProductRequest{
		SKU:        get("sku"),
		Category:   get("category"),
		Brand:      get("brand"),
		Model:      get("model"),
		Condition:  "New",
		LocationID: get("location"),
	}
	var err error
	if req.BasePrice, err = price("base_price"); err != nil {
		return req, err
	}
	if req.SellingPrice, err = price("selling_price"); err != nil {
		return req, err
	}
	if req.BestPrice, err = price("best_price"); err != nil {
		return req, err
	}
	if q := get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return req, fmt.Errorf("quantity %q inválida", q)
		}
		req.Quantity = n
	}
	return req, nil
}
