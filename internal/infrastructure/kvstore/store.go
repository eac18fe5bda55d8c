// Package kvstore guarda las colecciones del punto de venta (productos, movimientos,
// ventas, clientes y configuración) como documentos JSON sobre un almacenamiento
// clave-valor con la interfaz fiber.Storage (sqlite, postgres o redis).
//
// Cada colección vive en su propia clave. Las escrituras pasan por Run: se aplican
// sobre una copia en memoria, se persisten las claves modificadas y solo entonces
// la copia se vuelve el estado visible.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// Nombres de las claves (se les antepone el prefijo del Store).
const (
	KeyProducts  = "products"
	KeyMovements = "stock_movements"
	KeySales     = "sales"
	KeyCustomers = "customers"
	KeySettings  = "settings"
	KeySeeded    = "seeded"
)

// orden fijo de persistencia
var persistOrder = []string{KeyProducts, KeyMovements, KeySales, KeyCustomers, KeySettings, KeySeeded}

// ErrPersist envuelve los fallos del almacenamiento subyacente.
var ErrPersist = errors.New("kvstore: fallo de persistencia")

// dataset es el estado completo. Los punteros que contiene nunca se mutan en sitio:
// las escrituras reemplazan el elemento por una copia.
type dataset struct {
	products  []*entity.Product
	movements []*entity.StockMovement
	sales     []*entity.Sale
	customers []*entity.Customer
	settings  *entity.Settings
	seeded    bool
	nextSeq   int64
}

func (d *dataset) shallowCopy() *dataset {
	c := *d
	c.products = append([]*entity.Product(nil), d.products...)
	c.movements = append([]*entity.StockMovement(nil), d.movements...)
	c.sales = append([]*entity.Sale(nil), d.sales...)
	c.customers = append([]*entity.Customer(nil), d.customers...)
	if d.settings != nil {
		s := *d.settings
		c.settings = &s
	}
	return &c
}

// Store es el dueño único del estado persistido. Un solo escritor a la vez.
type Store struct {
	backend fiber.Storage
	prefix  string

	writeMu sync.Mutex
	mu      sync.RWMutex
	data    *dataset
}

// Open carga todas las colecciones desde backend. prefix separa instancias que comparten backend.
func Open(backend fiber.Storage, prefix string) (*Store, error) {
	s := &Store{backend: backend, prefix: prefix}
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	s.data = d
	return s, nil
}

// Close cierra el backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func (s *Store) load() (*dataset, error) {
	d := &dataset{nextSeq: 1}
	if err := s.loadJSON(KeyProducts, &d.products); err != nil {
		return nil, err
	}
	if err := s.loadJSON(KeyMovements, &d.movements); err != nil {
		return nil, err
	}
	if err := s.loadJSON(KeySales, &d.sales); err != nil {
		return nil, err
	}
	if err := s.loadJSON(KeyCustomers, &d.customers); err != nil {
		return nil, err
	}
	var settings entity.Settings
	raw, err := s.backend.Get(s.key(KeySettings))
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", ErrPersist, KeySettings, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("kvstore: decodificar %s: %w", KeySettings, err)
		}
		d.settings = &settings
	}
	flag, err := s.backend.Get(s.key(KeySeeded))
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", ErrPersist, KeySeeded, err)
	}
	d.seeded = len(flag) > 0
	d.movements = normalizeSeq(d.movements)
	if n := len(d.movements); n > 0 {
		d.nextSeq = d.movements[n-1].Seq + 1
	}
	return d, nil
}

func (s *Store) loadJSON(name string, dst any) error {
	raw, err := s.backend.Get(s.key(name))
	if err != nil {
		return fmt.Errorf("%w: leer %s: %v", ErrPersist, name, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("kvstore: decodificar %s: %w", name, err)
	}
	return nil
}

// Run ejecuta fn sobre una copia del estado. Si fn falla no se persiste nada.
// Si falla la persistencia se restauran las claves ya escritas; si tampoco se
// puede restaurar, el error envuelve domain.ErrLedgerDesync.
func (s *Store) Run(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	staged := s.data.shallowCopy()
	s.mu.RUnlock()

	tx := &Tx{data: staged, dirty: make(map[string]bool)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.dirty) == 0 {
		return nil
	}
	if err := s.persist(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = staged
	s.mu.Unlock()
	return nil
}

type written struct {
	key  string
	prev []byte
}

// Op es una escritura pendiente; Value nil significa borrar la clave.
type Op struct {
	Key   string
	Value []byte
}

// Batcher lo implementan los backends que aplican varias escrituras en una sola
// transacción propia (postgres). Con ellos no hace falta restaurar a mano.
type Batcher interface {
	ApplyBatch(ops []Op) error
}

func (s *Store) persist(tx *Tx) error {
	ops := make([]Op, 0, len(tx.dirty))
	for _, name := range persistOrder {
		if !tx.dirty[name] {
			continue
		}
		payload, err := encode(tx.data, name)
		if err != nil {
			return fmt.Errorf("kvstore: codificar %s: %w", name, err)
		}
		ops = append(ops, Op{Key: s.key(name), Value: payload})
	}
	if b, ok := s.backend.(Batcher); ok {
		if err := b.ApplyBatch(ops); err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
		return nil
	}

	var done []written
	for _, op := range ops {
		prev, err := s.backend.Get(op.Key)
		if err != nil {
			return s.rollback(done, fmt.Errorf("%w: leer %s: %v", ErrPersist, op.Key, err))
		}
		if op.Value == nil {
			err = s.backend.Delete(op.Key)
		} else {
			err = s.backend.Set(op.Key, op.Value, 0)
		}
		if err != nil {
			return s.rollback(done, fmt.Errorf("%w: escribir %s: %v", ErrPersist, op.Key, err))
		}
		done = append(done, written{key: op.Key, prev: prev})
	}
	return nil
}

// rollback restaura en orden inverso las claves ya escritas.
func (s *Store) rollback(done []written, cause error) error {
	for i := len(done) - 1; i >= 0; i-- {
		w := done[i]
		var err error
		if w.prev == nil {
			err = s.backend.Delete(w.key)
		} else {
			err = s.backend.Set(w.key, w.prev, 0)
		}
		if err != nil {
			return fmt.Errorf("%w: restaurar %s tras %v: %v", domain.ErrLedgerDesync, w.key, cause, err)
		}
	}
	return cause
}

func encode(d *dataset, name string) ([]byte, error) {
	switch name {
	case KeyProducts:
		return json.Marshal(nonNil(d.products))
	case KeyMovements:
		return json.Marshal(nonNil(d.movements))
	case KeySales:
		return json.Marshal(nonNil(d.sales))
	case KeyCustomers:
		return json.Marshal(nonNil(d.customers))
	case KeySettings:
		if d.settings == nil {
			return nil, nil
		}
		return json.Marshal(d.settings)
	case KeySeeded:
		if !d.seeded {
			return nil, nil
		}
		return []byte("true"), nil
	}
	return nil, fmt.Errorf("clave desconocida %q", name)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// view ejecuta fn con el estado confirmado bajo lectura compartida.
func (s *Store) view(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}
