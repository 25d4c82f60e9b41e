package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

func TestParseEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URL", "mongodb://db.example.com:27018/shop")

	inst := ParseEnvironment()
	if inst == nil {
		t.Fatal("ParseEnvironment() = nil")
	}
	if inst.Host != "db.example.com" || inst.Port != 27018 {
		t.Errorf("ParseEnvironment() = %s:%d", inst.Host, inst.Port)
	}
	if inst.Source != models.SourceEnvironment {
		t.Errorf("Source = %v", inst.Source)
	}

	cfg := GetEnvironmentConfig()
	if cfg == nil || cfg.Database != "shop" {
		t.Errorf("GetEnvironmentConfig() = %+v", cfg)
	}
}

func TestParseEnvironmentUnset(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URL", "")

	if ParseEnvironment() != nil || GetEnvironmentConfig() != nil {
		t.Error("expected no environment instance")
	}
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		in   string
		host string
		port int
	}{
		{"localhost:27019", "localhost", 27019},
		{"db", "db", 27017},
		{"db:notaport", "db", 27017},
	}
	for _, tt := range tests {
		host, port := splitHostPort(tt.in)
		if host != tt.host || port != tt.port {
			t.Errorf("splitHostPort(%q) = %q, %d", tt.in, host, port)
		}
	}
}

func TestDeduplicateInstances(t *testing.T) {
	instances := []models.DiscoveredInstance{
		{Host: "127.0.0.1", Port: 27017, Source: models.SourcePortScan},
		{Host: "localhost", Port: 27017, Source: models.SourceEnvironment},
		{Host: "localhost", Port: 27018, Source: models.SourcePortScan},
	}

	got := deduplicateInstances(instances)
	if len(got) != 2 {
		t.Fatalf("deduplicateInstances() returned %d instances", len(got))
	}
	for _, inst := range got {
		if inst.Port == 27017 && inst.Source != models.SourceEnvironment {
			t.Error("environment source should win")
		}
	}
}

func TestScanPortsFindsListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	s := NewScanner(time.Second)
	found := s.ScanPorts(context.Background(), "127.0.0.1", []int{port})
	if len(found) != 1 || found[0].Port != port {
		t.Fatalf("ScanPorts() = %+v", found)
	}
	if found[0].URI == "" {
		t.Error("URI not set")
	}
}
