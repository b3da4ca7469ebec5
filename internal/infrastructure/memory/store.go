// Package memory implementa el puerto de analítica sobre datos en memoria.
// Aplica exactamente la misma semántica que el adaptador PostgreSQL
// (exclusión de estados, límites inclusivos, costo vigente, sin categoría →
// "Uncategorized", JOIN interno con clientes) y sirve para pruebas y demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/pos-analytics/internal/domain/entity"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*Store)(nil)

// Store mantiene las entidades de ventas en mapas protegidos por un RWMutex.
type Store struct {
	mu         sync.RWMutex
	categories map[string]entity.Category
	customers  map[string]entity.Customer
	products   map[string]entity.Product
	orders     map[string]entity.Order
	items      []entity.OrderItem
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]entity.Category),
		customers:  make(map[string]entity.Customer),
		products:   make(map[string]entity.Product),
		orders:     make(map[string]entity.Order),
	}
}

// AddCategory registra una categoría.
func (s *Store) AddCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// AddProduct registra o reemplaza un producto (el costo nuevo afecta también a ventas pasadas).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddOrder registra un pedido con sus líneas.
func (s *Store) AddOrder(o entity.Order, items ...entity.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	for _, it := range items {
		it.OrderID = o.ID
		s.items = append(s.items, it)
	}
}

// accumulator totales parciales de un grupo.
type accumulator struct {
	row       repository.AggregateRow
	orders    map[string]struct{}
	customers map[string]struct{}
}

// Aggregate evalúa spec recorriendo las líneas de pedido.
func (s *Store) Aggregate(ctx context.Context, spec repository.AggregateSpec) ([]repository.AggregateRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memory.Aggregate %s: %w", spec.Dimension, err)
	}
	switch spec.Dimension {
	case repository.DimensionNone, repository.DimensionProduct, repository.DimensionCategory, repository.DimensionCustomer:
	case repository.DimensionPeriod:
		if spec.Bucket == "" {
			return nil, fmt.Errorf("memory.Aggregate: dimensión period sin bucket")
		}
	default:
		return nil, fmt.Errorf("memory.Aggregate: dimensión desconocida %q", spec.Dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*accumulator)
	var order []string
	f := spec.Filter

	for _, it := range s.items {
		o, ok := s.orders[it.OrderID]
		if !ok || o.TenantID != f.TenantID || !o.Status.Countable() {
			continue
		}
		if f.Start != nil && o.CreatedAt.Before(*f.Start) {
			continue
		}
		if f.End != nil && o.CreatedAt.After(*f.End) {
			continue
		}
		p, ok := s.products[it.ProductID]
		if !ok {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}

		key, label, sku, ok := s.groupKey(spec, o, p)
		if !ok {
			continue
		}
		acc, exists := groups[key]
		if !exists {
			acc = &accumulator{
				row:       repository.AggregateRow{Key: key, Label: label, SKU: sku},
				orders:    make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			groups[key] = acc
			order = append(order, key)
		}
		acc.row.Quantity += it.Quantity
		acc.row.RevenueCents += it.SubtotalCents
		acc.row.CostCents += it.Quantity * p.CostCents
		acc.orders[o.ID] = struct{}{}
		if o.CustomerID != "" {
			acc.customers[o.CustomerID] = struct{}{}
		}
	}

	rows := make([]repository.AggregateRow, 0, len(order))
	for _, k := range order {
		acc := groups[k]
		acc.row.OrderCount = int64(len(acc.orders))
		acc.row.CustomerCount = int64(len(acc.customers))
		rows = append(rows, acc.row)
	}

	if spec.Dimension == repository.DimensionNone {
		if len(rows) == 0 {
			rows = append(rows, repository.AggregateRow{})
		}
		return rows, nil
	}

	sortRows(rows, spec)
	if spec.Limit > 0 && len(rows) > spec.Limit {
		rows = rows[:spec.Limit]
	}
	return rows, nil
}

// groupKey devuelve clave, etiqueta y SKU del grupo; ok=false descarta la línea.
func (s *Store) groupKey(spec repository.AggregateSpec, o entity.Order, p entity.Product) (key, label, sku string, ok bool) {
	switch spec.Dimension {
	case repository.DimensionNone:
		return "", "", "", true
	case repository.DimensionProduct:
		return p.ID, p.Name, p.SKU, true
	case repository.DimensionCategory:
		if c, found := s.categories[p.CategoryID]; found {
			return c.ID, c.Name, "", true
		}
		return "", entity.UncategorizedLabel, "", true
	case repository.DimensionCustomer:
		c, found := s.customers[o.CustomerID]
		if o.CustomerID == "" || !found {
			return "", "", "", false
		}
		return c.ID, c.Name, "", true
	case repository.DimensionPeriod:
		k := spec.Bucket.Key(o.CreatedAt)
		return k, k, "", true
	}
	return "", "", "", false
}

func sortRows(rows []repository.AggregateRow, spec repository.AggregateSpec) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if spec.Dimension == repository.DimensionPeriod {
			return a.Key < b.Key
		}
		va, vb := a.RevenueCents, b.RevenueCents
		if spec.OrderBy == repository.MetricProfit {
			va, vb = a.ProfitCents(), b.ProfitCents()
		}
		if va != vb {
			return va > vb
		}
		return a.Key < b.Key
	})
}
