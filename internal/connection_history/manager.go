package connection_history

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Entry is a connection that was opened before
type Entry struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	URI        string    `yaml:"uri"` // never carries a password
	Database   string    `yaml:"database,omitempty"`
	Collection string    `yaml:"collection,omitempty"`
	LastUsed   time.Time `yaml:"last_used"`
	UsageCount int       `yaml:"usage_count"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// ToConnectionConfig converts the entry back into a connection config
func (e Entry) ToConnectionConfig() models.ConnectionConfig {
	return models.ConnectionConfig{
		Name:       e.Name,
		URI:        e.URI,
		Database:   e.Database,
		Collection: e.Collection,
	}
}

// ToInstance lists the entry next to discovered instances
func (e Entry) ToInstance() models.DiscoveredInstance {
	inst := models.DiscoveredInstance{
		URI:        e.URI,
		Source:     models.SourceRecent,
		Available:  true,
		Name:       e.Name,
		Database:   e.Database,
		Collection: e.Collection,
	}
	inst.Host = firstHost(e.URI)
	return inst
}

// Manager manages connection history
type Manager struct {
	path    string
	history []Entry
}

// NewManager creates a new connection history manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "connection_history.yaml")

	m := &Manager{
		path:    path,
		history: []Entry{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load connection history: %w", err)
		}
	}

	return m, nil
}

// Load loads connection history from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read connection history file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.history); err != nil {
		return fmt.Errorf("failed to parse connection history: %w", err)
	}

	return nil
}

// Save saves connection history to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.history)
	if err != nil {
		return fmt.Errorf("failed to marshal connection history: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write connection history file: %w", err)
	}

	return nil
}

// Add records a successful connection, updating the entry for the same URI
// and database if there is one
func (m *Manager) Add(config models.ConnectionConfig) error {
	uri := StripPassword(config.URI)
	now := time.Now()

	for i, entry := range m.history {
		if entry.URI == uri && entry.Database == config.Database {
			m.history[i].LastUsed = now
			m.history[i].UsageCount++
			m.history[i].Collection = config.Collection
			if config.Name != "" {
				m.history[i].Name = config.Name
			}
			return m.Save()
		}
	}

	name := config.Name
	if name == "" {
		name = defaultName(uri, config.Database)
	}

	m.history = append(m.history, Entry{
		ID:         uuid.New().String(),
		Name:       name,
		URI:        uri,
		Database:   config.Database,
		Collection: config.Collection,
		LastUsed:   now,
		UsageCount: 1,
		CreatedAt:  now,
	})

	return m.Save()
}

// GetAll returns all connection history entries
func (m *Manager) GetAll() []Entry {
	return m.history
}

// GetRecent returns the most recently used connections
func (m *Manager) GetRecent(limit int) []Entry {
	sorted := make([]Entry, len(m.history))
	copy(sorted, m.history)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// Delete removes a connection from history by ID
func (m *Manager) Delete(id string) error {
	for i, entry := range m.history {
		if entry.ID == id {
			m.history = append(m.history[:i], m.history[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("connection history entry with ID '%s' not found", id)
}

// StripPassword removes the password from a connection string, keeping the user name
func StripPassword(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return stripUserinfo(uri)
	}
	if u.User == nil {
		return uri
	}
	if _, ok := u.User.Password(); !ok {
		return uri
	}
	u.User = url.User(u.User.Username())
	return u.String()
}

// stripUserinfo handles seed lists that net/url rejects
func stripUserinfo(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	authority, path, hasPath := strings.Cut(rest, "/")
	at := strings.LastIndex(authority, "@")
	if at < 0 {
		return uri
	}
	user, _, _ := strings.Cut(authority[:at], ":")
	out := scheme + "://" + user + authority[at:]
	if hasPath {
		out += "/" + path
	}
	return out
}

func defaultName(uri, database string) string {
	host := firstHost(uri)
	if host == "" {
		host = "mongodb"
	}
	if database == "" {
		return host
	}
	return host + "/" + database
}

// firstHost returns the first host of a seed list
func firstHost(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	host, _, _ := strings.Cut(u.Host, ",")
	return host
}
