// Package memory implementa el store efímero en memoria, para desarrollo local y tests.
// Reproduce la semántica del store PostgreSQL: visitas sin deduplicar, terminales con
// "el primero gana" y el mismo agregado mensual.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

var (
	_ repository.StoreHandle           = (*Store)(nil)
	_ repository.VisitRepository       = (*Store)(nil)
	_ repository.TerminalRepository    = (*Store)(nil)
	_ repository.RepeatVisitRepository = (*Store)(nil)
	_ repository.StoreProvisioner      = (*Provisioner)(nil)
)

// Store store en memoria; también implementa los tres repositorios.
type Store struct {
	name      string
	mu        sync.RWMutex
	visits    []entity.Visit
	terminals map[string]entity.Terminal
	// terminales con customer_code nulo: el índice único no los restringe
	nullTerminals int
	closed        atomic.Bool
}

// NewStore crea un store vacío.
func NewStore(name string) *Store {
	return &Store{name: name, terminals: make(map[string]entity.Terminal)}
}

func (s *Store) Name() string                                   { return s.name }
func (s *Store) Visits() repository.VisitRepository             { return s }
func (s *Store) Terminals() repository.TerminalRepository       { return s }
func (s *Store) RepeatVisits() repository.RepeatVisitRepository { return s }

// Close marca el store como cerrado: las operaciones posteriores fallan con ErrNotReady.
func (s *Store) Close() { s.closed.Store(true) }

// Closed indica si el store fue cerrado.
func (s *Store) Closed() bool { return s.closed.Load() }

func (s *Store) checkOpen(op string) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %s: store %s cerrado", domain.ErrNotReady, op, s.name)
	}
	return nil
}

// InsertVisits agrega todas las visitas.
func (s *Store) InsertVisits(_ context.Context, visits []entity.Visit) (int64, error) {
	if err := s.checkOpen("visit.InsertVisits"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append(s.visits, visits...)
	return int64(len(visits)), nil
}

// InsertTerminals inserta en orden; un código ya presente se ignora.
func (s *Store) InsertTerminals(_ context.Context, terminals []entity.Terminal) (int64, error) {
	if err := s.checkOpen("terminal.InsertTerminals"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, t := range terminals {
		if t.CustomerCode == nil {
			s.nullTerminals++
			n++
			continue
		}
		if _, exists := s.terminals[*t.CustomerCode]; exists {
			continue
		}
		s.terminals[*t.CustomerCode] = t
		n++
	}
	return n, nil
}

// nullable clave de agrupación que distingue NULL de "".
type nullable struct {
	valid bool
	value string
}

func nullableOf(p *string) nullable {
	if p == nil {
		return nullable{}
	}
	return nullable{valid: true, value: *p}
}

func (n nullable) ptr() *string {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

type groupKey struct {
	visitor, customerCode, customerName, month nullable
}

type groupAcc struct {
	count, totalDuration int64
}

// FindRepeatVisits misma semántica que la consulta SQL: agrupa, aplica umbral estricto,
// une terminales (LEFT JOIN), filtra por subcadena literal y ordena por conteo descendente.
func (s *Store) FindRepeatVisits(_ context.Context, f entity.RepeatVisitFilter) ([]entity.RepeatVisit, error) {
	if err := s.checkOpen("repeatVisit.FindRepeatVisits"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[groupKey]*groupAcc)
	var order []groupKey
	for _, v := range s.visits {
		if blankStart(v.StartTime) {
			continue
		}
		k := groupKey{
			visitor:      nullableOf(v.Visitor),
			customerCode: nullableOf(v.CustomerCode),
			customerName: nullableOf(v.CustomerName),
			month:        nullableOf(v.VisitMonth),
		}
		acc, ok := groups[k]
		if !ok {
			acc = &groupAcc{}
			groups[k] = acc
			order = append(order, k)
		}
		acc.count++
		acc.totalDuration += int64(v.DurationMinutes)
	}

	results := []entity.RepeatVisit{}
	for _, k := range order {
		acc := groups[k]
		if acc.count <= int64(f.MinVisits) {
			continue
		}
		row := entity.RepeatVisit{
			Visitor:              k.visitor.ptr(),
			CustomerName:         k.customerName.ptr(),
			CustomerCode:         k.customerCode.ptr(),
			VisitMonth:           k.month.ptr(),
			VisitCount:           acc.count,
			TotalDurationMinutes: acc.totalDuration,
			AvgDurationMinutes:   decimal.NewFromInt(acc.totalDuration).Div(decimal.NewFromInt(acc.count)).Round(2),
		}
		if k.customerCode.valid {
			if t, ok := s.terminals[k.customerCode.value]; ok {
				row.Territory = t.Territory
				row.Region = t.Region
			}
		}
		if matches(row, f) {
			results = append(results, row)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.VisitCount != b.VisitCount {
			return a.VisitCount > b.VisitCount
		}
		if c := compareNullsLast(a.Visitor, b.Visitor); c != 0 {
			return c < 0
		}
		if c := compareNullsLast(a.CustomerCode, b.CustomerCode); c != 0 {
			return c < 0
		}
		return compareNullsLast(a.VisitMonth, b.VisitMonth) < 0
	})
	return results, nil
}

// blankStart: nulo, vacío o solo espacios, igual que btrim(start_time) = '' en SQL.
func blankStart(p *string) bool {
	return p == nil || strings.Trim(*p, " ") == ""
}

func matches(row entity.RepeatVisit, f entity.RepeatVisitFilter) bool {
	if f.TargetMonth != "" && (row.VisitMonth == nil || *row.VisitMonth != f.TargetMonth) {
		return false
	}
	return contains(row.Visitor, f.Visitor) &&
		contains(row.CustomerName, f.CustomerName) &&
		contains(row.CustomerCode, f.CustomerCode) &&
		contains(row.Territory, f.Territory) &&
		contains(row.Region, f.Region)
}

// contains: filtro vacío no restringe; un valor nulo nunca cumple un filtro no vacío.
func contains(value *string, filter string) bool {
	if filter == "" {
		return true
	}
	return value != nil && strings.Contains(*value, filter)
}

func compareNullsLast(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

// Provisioner crea stores en memoria con nombres únicos.
type Provisioner struct {
	prefix string
	seq    atomic.Int64
	now    func() time.Time
}

// NewProvisioner construye el aprovisionador en memoria.
func NewProvisioner(prefix string) *Provisioner {
	return &Provisioner{prefix: strings.ToLower(prefix), now: time.Now}
}

// Provision devuelve un store vacío <prefix>_<unix-millis>_<secuencia>.
func (p *Provisioner) Provision(_ context.Context) (repository.StoreHandle, error) {
	name := fmt.Sprintf("%s_%d_%d", p.prefix, p.now().UnixMilli(), p.seq.Add(1))
	return NewStore(name), nil
}

// Teardown cierra el store; en memoria no hay nada más que eliminar.
func (p *Provisioner) Teardown(_ context.Context, h repository.StoreHandle) error {
	if h != nil {
		h.Close()
	}
	return nil
}
