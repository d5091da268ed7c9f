package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pradhanmausumi/zudio-franchise/models"
)

// OrderStore holds every order created during the process lifetime. Orders
// are never deleted. The gateway request id index is maintained inside the
// same critical section as the insert so a webhook can never observe an
// order through one map but not the other.
type OrderStore struct {
	mu          sync.RWMutex
	byID        map[string]*models.Order
	byRequestID map[string]string // gateway request id -> order id
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		byID:        make(map[string]*models.Order),
		byRequestID: make(map[string]string),
	}
}

// Put inserts the order and indexes it by gateway request id.
func (s *OrderStore) Put(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := o
	s.byID[o.OrderID] = &cp
	if o.GatewayRequestID != "" {
		s.byRequestID[o.GatewayRequestID] = o.OrderID
	}
}

// Get returns a copy of the order, if present.
func (s *OrderStore) Get(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[orderID]
	if !ok {
		return models.Order{}, false
	}
	return *o, true
}

// FindByGatewayRequestID returns a copy of the order the gateway request id
// correlates to, if any.
func (s *OrderStore) FindByGatewayRequestID(requestID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byRequestID[requestID]
	if !ok {
		return models.Order{}, false
	}
	return *s.byID[id], true
}

// Complete transitions the order correlated to requestID from pending to
// completed, recording paymentID and the completion time. The check and
// the write happen under one lock, so of any number of concurrent calls
// for the same order exactly one returns transitioned=true; the rest see
// the order already completed and leave it untouched.
func (s *OrderStore) Complete(requestID, paymentID string, at time.Time) (order models.Order, found, transitioned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byRequestID[requestID]
	if !ok {
		return models.Order{}, false, false
	}
	o := s.byID[id]
	if o.Status == models.StatusCompleted {
		return *o, true, false
	}
	o.Status = models.StatusCompleted
	o.PaymentID = paymentID
	t := at
	o.CompletedAt = &t
	return *o, true, true
}

// All returns copies of every order, newest first.
func (s *OrderStore) All() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, 0, len(s.byID))
	for _, o := range s.byID {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// Count returns the number of stored orders.
func (s *OrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
