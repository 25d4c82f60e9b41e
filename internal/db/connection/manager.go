package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Manager manages multiple database connections
type Manager struct {
	connections map[string]*Connection
	active      string
	opts        Options
	mu          sync.RWMutex
}

// Connection wraps a client with metadata
type Connection struct {
	models.Connection
	Client *Client
}

// NewManager creates a new connection manager
func NewManager(opts Options) *Manager {
	return &Manager{
		connections: make(map[string]*Connection),
		opts:        opts,
	}
}

// Connect establishes a new connection and makes it active
func (m *Manager) Connect(ctx context.Context, config models.ConnectionConfig) (string, error) {
	id := generateConnectionID(config)

	// connecting can take seconds; keep the lock out of it
	client, err := NewClient(ctx, config, m.opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.connections[id]; ok && old.Client != nil {
		_ = old.Client.Close(context.Background())
	}

	if err != nil {
		m.connections[id] = &Connection{Connection: models.Connection{
			ID:     id,
			Config: config,
			Error:  err,
		}}
		return id, err
	}

	now := time.Now()
	m.connections[id] = &Connection{
		Connection: models.Connection{
			ID:          id,
			Config:      config,
			Connected:   true,
			ConnectedAt: now,
			LastPing:    now,
		},
		Client: client,
	}
	m.active = id

	return id, nil
}

// Disconnect closes a connection
func (m *Manager) Disconnect(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.connections[id]
	if !ok {
		return fmt.Errorf("connection %s not found", id)
	}

	delete(m.connections, id)
	if m.active == id {
		m.active = ""
	}

	if conn.Client != nil {
		return conn.Client.Close(ctx)
	}
	return nil
}

// CloseAll disconnects every connection
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, conn := range m.connections {
		if conn.Client != nil {
			_ = conn.Client.Close(ctx)
		}
		delete(m.connections, id)
	}
	m.active = ""
}

// GetActive returns the active connection
func (m *Manager) GetActive() (*Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == "" {
		return nil, fmt.Errorf("no active connection")
	}

	conn, ok := m.connections[m.active]
	if !ok {
		return nil, fmt.Errorf("active connection not found")
	}

	return conn, nil
}

// SetActive sets the active connection
func (m *Manager) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.connections[id]; !ok {
		return fmt.Errorf("connection %s not found", id)
	}

	m.active = id
	return nil
}

// GetAll returns all connections
func (m *Manager) GetAll() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		conns = append(conns, conn)
	}
	return conns
}

// Ping tests the active connection
func (m *Manager) Ping(ctx context.Context) error {
	conn, err := m.GetActive()
	if err != nil {
		return err
	}

	if conn.Client == nil {
		return fmt.Errorf("client not initialized")
	}

	if err := conn.Client.Ping(ctx); err != nil {
		m.mu.Lock()
		conn.Error = err
		conn.Connected = false
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	conn.LastPing = time.Now()
	conn.Connected = true
	conn.Error = nil
	m.mu.Unlock()

	return nil
}

// generateConnectionID creates a unique connection ID
func generateConnectionID(config models.ConnectionConfig) string {
	if config.Name != "" {
		return config.Name
	}
	uri := config.URI
	if uri == "" {
		uri = DefaultURI
	}
	return uri
}
