package inventory

import (
	"sort"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// Key identifica un par producto + ubicación.
type Key struct {
	ProductID  string
	LocationID string
}

// Discrepancy reporta un par cuyo replay del libro no coincide con el stock vivo.
type Discrepancy struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	LocationID  string `json:"locationId"`
	LiveStock   int    `json:"liveStock"`
	LedgerStock int    `json:"ledgerStock"`
}

// Replay reconstruye el stock por producto y ubicación sumando los movimientos en orden de libro.
// Un faltante de venta se suma de vuelta: el stock quedó en cero, no en negativo.
func Replay(movements []*entity.StockMovement) map[Key]int {
	ordered := make([]*entity.StockMovement, len(movements))
	copy(ordered, movements)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	out := make(map[Key]int)
	for _, m := range ordered {
		k := Key{ProductID: m.ProductID, LocationID: m.LocationID}
		out[k] += m.AppliedChange()
	}
	return out
}

// Reconcile compara el stock vivo de cada producto con el replay del libro.
// También reporta productos ya eliminados cuyo replay no termina en cero.
func Reconcile(products []*entity.Product, movements []*entity.StockMovement) []Discrepancy {
	ledger := Replay(movements)
	names := make(map[string]string)
	for _, m := range movements {
		names[m.ProductID] = m.ProductName
	}

	var out []Discrepancy
	seen := make(map[Key]bool)
	for _, p := range products {
		for loc, live := range p.StockByLocation {
			k := Key{ProductID: p.ID, LocationID: loc}
			seen[k] = true
			if ledger[k] != live {
				out = append(out, Discrepancy{ProductID: p.ID, ProductName: p.DisplayName(), LocationID: loc, LiveStock: live, LedgerStock: ledger[k]})
			}
		}
	}
	for k, qty := range ledger {
		if seen[k] || qty == 0 {
			continue
		}
		out = append(out, Discrepancy{ProductID: k.ProductID, ProductName: names[k.ProductID], LocationID: k.LocationID, LiveStock: 0, LedgerStock: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}
