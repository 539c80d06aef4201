// Package mind is the top-level orchestrator. It owns the lifecycle state
// machine, the exclusive gate serializing every state-changing command, the
// derived caches, and the temporal visibility aspect, and composes memory,
// search, and the associative engine.
//
// Locking discipline: the four lifecycle commands and all structural
// mutations take the write side of the gate; searches and read-only queries
// take the read side and run concurrently with each other. The *Locked
// variants assume the write lock is held and never re-acquire it.
package mind

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindkeep/mindkeep/internal/assoc"
	"github.com/mindkeep/mindkeep/internal/config"
	"github.com/mindkeep/mindkeep/internal/memory"
	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/ontology"
	"github.com/mindkeep/mindkeep/internal/timescope"
)

// Mind orchestrates the knowledge base.
type Mind struct {
	cfg    *config.Config
	mem    *memory.Memory
	onto   *ontology.Ontology
	engine assoc.Engine
	log    zerolog.Logger

	gate   sync.RWMutex
	active atomic.Int32

	scope      timescope.Aspect
	dwell      []*model.Note
	dwellLimit int
	allNotes   []*model.Note
}

// New wires the orchestrator together. The time scope aspect is attached to
// memory so listings and search share one predicate.
func New(cfg *config.Config, mem *memory.Memory, engine assoc.Engine, log zerolog.Logger) *Mind {
	m := &Mind{
		cfg:        cfg,
		mem:        mem,
		onto:       ontology.New(),
		engine:     engine,
		log:        log.With().Str("component", "mind").Logger(),
		dwellLimit: cfg.DwellLimit,
	}
	mem.SetTimeScope(&m.scope)
	if cfg.TimeScopeHours > 0 {
		m.scope.Enable(time.Now().UTC().Add(-time.Duration(cfg.TimeScopeHours) * time.Hour))
	}
	return m
}

// Ontology returns the type taxonomy collaborator.
func (m *Mind) Ontology() *ontology.Ontology {
	return m.onto
}

// State returns the current lifecycle state.
func (m *Mind) State() config.MindState {
	m.gate.RLock()
	defer m.gate.RUnlock()
	return m.cfg.State()
}

// BeginProcess marks a long-running read or export operation in flight.
// While any process is active, sleep, amnesia, and learn refuse.
func (m *Mind) BeginProcess() {
	m.active.Add(1)
}

// EndProcess marks a long-running operation as finished.
func (m *Mind) EndProcess() {
	m.active.Add(-1)
}

// ActiveProcesses returns the number of operations in flight.
func (m *Mind) ActiveProcesses() int {
	return int(m.active.Load())
}

// Learn wipes the current memory and rebuilds it from the persistence
// collaborator. Returns false when the mind is DREAMING, processes are
// active, or the associative engine refuses to let go.
func (m *Mind) Learn(ctx context.Context) (bool, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	if !m.amnesiaLocked(ctx) {
		m.log.Debug().Msg("learn refused")
		return false, nil
	}
	if err := m.mem.Learn(ctx); err != nil {
		return false, err
	}
	m.onRememberingLocked()
	m.log.Info().Int("outlines", m.mem.OutlineCount()).Msg("learned")
	return true, nil
}

// Think transitions SLEEPING to DREAMING and triggers the consolidation
// pass. Any other current state yields an immediately-resolved false task
// with no state change. The caller must await the returned task before
// issuing further state-changing commands; its completion is the only path
// out of DREAMING and always lands in THINKING.
func (m *Mind) Think(ctx context.Context) *assoc.Task {
	m.gate.Lock()
	defer m.gate.Unlock()

	if m.cfg.State() != config.Sleeping {
		m.log.Debug().Str("state", string(m.cfg.State())).Msg("think refused")
		return assoc.Resolved(false)
	}
	return m.dreamLocked(ctx)
}

// dreamLocked starts the dream while holding the gate. The engine snapshots
// memory synchronously; the long computation runs without the gate.
func (m *Mind) dreamLocked(ctx context.Context) *assoc.Task {
	m.cfg.SetState(config.Dreaming)
	inner := m.engine.Dream(ctx)
	m.log.Info().Str("job", inner.ID()).Msg("dreaming")

	outer := assoc.NewTask()
	go func() {
		// wait for the computation itself, not the caller's context:
		// DREAMING ends only when the dream does
		ok, _ := inner.Await(context.Background())

		m.gate.Lock()
		m.cfg.SetState(config.Thinking)
		m.gate.Unlock()

		m.log.Info().Str("job", inner.ID()).Bool("ok", ok).Msg("awake and thinking")
		outer.Resolve(ok)
	}()
	return outer
}

// Sleep clears the derived caches, persists the configuration, and rests.
// Returns false when DREAMING, when processes are active, or when the
// associative engine still holds live references into memory.
func (m *Mind) Sleep(ctx context.Context) bool {
	m.gate.Lock()
	defer m.gate.Unlock()
	return m.sleepLocked(ctx)
}

func (m *Mind) sleepLocked(context.Context) bool {
	if m.cfg.State() == config.Dreaming || m.active.Load() > 0 {
		m.log.Debug().Msg("sleep refused: dreaming or processes active")
		return false
	}
	if !m.engine.Sleep() {
		m.log.Debug().Msg("sleep refused by associative engine")
		return false
	}

	m.allNotes = nil
	m.dwell = nil
	m.cfg.SetState(config.Sleeping)
	if err := m.cfg.Save(); err != nil {
		m.log.Error().Err(err).Msg("persist configuration")
	}
	m.log.Info().Msg("sleeping")
	return true
}

// Amnesia forces a sleep transition and then irreversibly wipes the entire
// memory contents. Same preconditions as Sleep.
func (m *Mind) Amnesia(ctx context.Context) bool {
	m.gate.Lock()
	defer m.gate.Unlock()
	return m.amnesiaLocked(ctx)
}

func (m *Mind) amnesiaLocked(ctx context.Context) bool {
	if m.cfg.State() == config.Dreaming || m.active.Load() > 0 {
		m.log.Debug().Msg("amnesia refused: dreaming or processes active")
		return false
	}
	if !m.sleepLocked(ctx) {
		return false
	}
	m.mem.Amnesia()
	m.onRememberingLocked()
	m.log.Info().Msg("amnesia")
	return true
}

// onRememberingLocked invalidates the derived note listing after any
// structural change. Caller holds the write lock.
func (m *Mind) onRememberingLocked() {
	m.allNotes = nil
}
