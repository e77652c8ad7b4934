// Package memory implementa los puertos de persistencia en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para las pruebas de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	products      map[string]entity.Product
	units         map[string]entity.InventoryUnit
	unitBySerial  map[string]string
	movements     []entity.StockMovement
	consignments  map[string]entity.Consignment
	consignOrder  []string
	details       map[string]entity.ConsignmentDetail
	detailOrder   []string
	consignees    map[string]entity.Consignee
	consigneeList []string
	payments      []entity.Payment
	customers     map[string]entity.Customer
}

func newState() state {
	return state{
		products:     map[string]entity.Product{},
		units:        map[string]entity.InventoryUnit{},
		unitBySerial: map[string]string{},
		consignments: map[string]entity.Consignment{},
		details:      map[string]entity.ConsignmentDetail{},
		consignees:   map[string]entity.Consignee{},
		customers:    map[string]entity.Customer{},
	}
}

// clone copia los contenedores; los valores son structs copiables.
func (s state) clone() state {
	c := state{
		products:      make(map[string]entity.Product, len(s.products)),
		units:         make(map[string]entity.InventoryUnit, len(s.units)),
		unitBySerial:  make(map[string]string, len(s.unitBySerial)),
		movements:     append([]entity.StockMovement(nil), s.movements...),
		consignments:  make(map[string]entity.Consignment, len(s.consignments)),
		consignOrder:  append([]string(nil), s.consignOrder...),
		details:       make(map[string]entity.ConsignmentDetail, len(s.details)),
		detailOrder:   append([]string(nil), s.detailOrder...),
		consignees:    make(map[string]entity.Consignee, len(s.consignees)),
		consigneeList: append([]string(nil), s.consigneeList...),
		payments:      append([]entity.Payment(nil), s.payments...),
		customers:     make(map[string]entity.Customer, len(s.customers)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.unitBySerial {
		c.unitBySerial[k] = v
	}
	for k, v := range s.consignments {
		c.consignments[k] = v
	}
	for k, v := range s.details {
		c.details[k] = v
	}
	for k, v := range s.consignees {
		c.consignees[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	return c
}

// Store guarda todo el estado. Las transacciones se serializan con un mutex y, si fn falla,
// se restaura la foto tomada al inicio (rollback).
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a la transacción.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, s.repositories(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repositories devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repositories() repository.Repositories {
	return s.repositories(false)
}

// Analytics devuelve el repositorio de lectura del tablero.
func (s *Store) Analytics() repository.AnalyticsRepository {
	return &analyticsRepo{base{s: s}}
}

func (s *Store) repositories(inTx bool) repository.Repositories {
	b := base{s: s, inTx: inTx}
	return repository.Repositories{
		Products:     &productRepo{b},
		Units:        &unitRepo{b},
		Movements:    &movementRepo{b},
		Consignments: &consignmentRepo{b},
		Consignees:   &consigneeRepo{b},
		Payments:     &paymentRepo{b},
		Customers:    &customerRepo{b},
	}
}

// base evita tomar el lock de nuevo cuando ya se está dentro de Run.
type base struct {
	s    *Store
	inTx bool
}

func (b base) read() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.RLock()
	return b.s.mu.RUnlock
}

func (b base) write() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
