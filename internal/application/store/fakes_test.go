package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHandle struct {
	name   string
	closed atomic.Int32
}

func (h *fakeHandle) Name() string                                   { return h.name }
func (h *fakeHandle) Visits() repository.VisitRepository             { return nil }
func (h *fakeHandle) Terminals() repository.TerminalRepository       { return nil }
func (h *fakeHandle) RepeatVisits() repository.RepeatVisitRepository { return nil }
func (h *fakeHandle) Close()                                         { h.closed.Add(1) }

// fakeProvisioner registra las llamadas y detecta solapamientos entre Provision/Teardown.
type fakeProvisioner struct {
	mu           sync.Mutex
	seq          int
	provisionErr error
	teardownErr  error
	torndown     []string
	inFlight     atomic.Int32
	overlapped   atomic.Bool
	delay        time.Duration
	// con block definido, Provision avisa en entered y espera a que se cierre block
	block   chan struct{}
	entered chan struct{}
}

func (p *fakeProvisioner) enter() func() {
	if p.inFlight.Add(1) > 1 {
		p.overlapped.Store(true)
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return func() { p.inFlight.Add(-1) }
}

func (p *fakeProvisioner) Provision(ctx context.Context) (repository.StoreHandle, error) {
	if p.block != nil {
		p.entered <- struct{}{}
		<-p.block
	}
	defer p.enter()()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.provisionErr != nil {
		return nil, p.provisionErr
	}
	p.seq++
	return &fakeHandle{name: fmt.Sprintf("terminal_%d", p.seq)}, nil
}

func (p *fakeProvisioner) Teardown(ctx context.Context, h repository.StoreHandle) error {
	defer p.enter()()
	p.mu.Lock()
	defer p.mu.Unlock()
	h.Close()
	p.torndown = append(p.torndown, h.Name())
	return p.teardownErr
}

func (p *fakeProvisioner) torndownNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.torndown...)
}

var errEngineDown = errors.New("connection refused")

func wrappedProvisioningErr() error {
	return fmt.Errorf("%w: crear base: %w", domain.ErrProvisioning, errEngineDown)
}
