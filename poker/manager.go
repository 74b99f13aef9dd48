package poker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jokeoa/goigaming/domain"
)

// HubManager owns the running table hubs and their goroutines.
type HubManager struct {
	mu      sync.RWMutex
	hubs    map[uuid.UUID]*TableHub
	cancels map[uuid.UUID]context.CancelFunc
	deps    HubDeps
	cfg     HubConfig
	logger  *slog.Logger
}

func NewHubManager(deps HubDeps, cfg HubConfig, logger *slog.Logger) *HubManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &HubManager{
		hubs:    map[uuid.UUID]*TableHub{},
		cancels: map[uuid.UUID]context.CancelFunc{},
		deps:    deps,
		cfg:     cfg,
		logger:  logger,
	}
}

// Get returns the hub for a table, or nil if none is running.
func (m *HubManager) Get(tableID uuid.UUID) *TableHub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[tableID]
}

// GetOrStart returns the table's hub, starting one if needed.
func (m *HubManager) GetOrStart(table domain.PokerTable) *TableHub {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hub, ok := m.hubs[table.ID]; ok {
		return hub
	}
	hub := NewTableHub(table, m.deps, m.cfg)
	ctx, cancel := context.WithCancel(context.Background())
	m.hubs[table.ID] = hub
	m.cancels[table.ID] = cancel
	go hub.Run(ctx)
	m.logger.Info("started table hub", "table_id", table.ID)
	return hub
}

// StopTable shuts down one hub.
func (m *HubManager) StopTable(tableID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[tableID]; ok {
		cancel()
		delete(m.cancels, tableID)
		delete(m.hubs, tableID)
	}
}

// ShutdownAll stops every hub, used during server shutdown.
func (m *HubManager) ShutdownAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
		delete(m.hubs, id)
	}
	m.logger.Info("all table hubs stopped")
}
