package models

import (
	"time"
)

// ConnectionConfig represents a MongoDB connection configuration
type ConnectionConfig struct {
	Name       string `yaml:"name"`
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// Connection represents an active database connection
type Connection struct {
	ID          string
	Config      ConnectionConfig
	Connected   bool
	ConnectedAt time.Time
	LastPing    time.Time
	Error       error
}

// DiscoveredInstance represents a MongoDB instance found via auto-discovery
type DiscoveredInstance struct {
	Host         string
	Port         int
	URI          string
	Source       DiscoverySource
	Available    bool
	ResponseTime time.Duration

	// Set for recent connections only
	Name       string
	Database   string
	Collection string
}

// DiscoverySource indicates how an instance was discovered
type DiscoverySource int

const (
	SourceConfig DiscoverySource = iota
	SourceEnvironment
	SourcePortScan
	SourceRecent
)

func (s DiscoverySource) String() string {
	switch s {
	case SourceConfig:
		return "Config File"
	case SourceEnvironment:
		return "Environment"
	case SourcePortScan:
		return "Port Scan"
	case SourceRecent:
		return "Recent"
	default:
		return "Unknown"
	}
}
