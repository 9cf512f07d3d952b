// Package memory implementa los puertos del motor sobre un almacén en memoria
// direccionado por clave. Es el doble de pruebas de los casos de uso y sirve
// también para embeber el motor sin base de datos (demos, herramientas).
package memory

import (
	"sync"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Store almacén en memoria: un mapa por colección, protegido por un RWMutex.
// Cada operación lee/escribe documentos completos por clave, igual que el
// almacén real (sin transacciones multi-documento).
type Store struct {
	mu           sync.RWMutex
	items        map[string]entity.InventoryItem
	lots         map[string]entity.Lot
	reservations map[string]entity.Reservation
	consumptions map[string]entity.Consumption
	tasks        map[string]entity.ProductionTask
	orders       map[string]entity.Order
	receiptSeq   int64
}

// NewStore construye el almacén vacío.
func NewStore() *Store {
	return &Store{
		items:        make(map[string]entity.InventoryItem),
		lots:         make(map[string]entity.Lot),
		reservations: make(map[string]entity.Reservation),
		consumptions: make(map[string]entity.Consumption),
		tasks:        make(map[string]entity.ProductionTask),
		orders:       make(map[string]entity.Order),
	}
}

// PutItem guarda un ítem (siembra de datos maestros).
func (s *Store) PutItem(item entity.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// PutTask guarda una tarea de producción.
func (s *Store) PutTask(task entity.ProductionTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// PutOrder guarda un pedido.
func (s *Store) PutOrder(order entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// NextReceiptSequence devuelve la siguiente secuencia de recepción (monótona).
func (s *Store) NextReceiptSequence() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receiptSeq++
	return s.receiptSeq
}
