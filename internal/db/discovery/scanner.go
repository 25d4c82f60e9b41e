package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// DefaultPorts are the default mongod ports to scan
var DefaultPorts = []int{27017, 27018, 27019}

// Scanner discovers MongoDB instances by probing TCP ports
type Scanner struct {
	timeout time.Duration
}

// NewScanner creates a scanner with the given dial timeout
func NewScanner(timeout time.Duration) *Scanner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Scanner{
		timeout: timeout,
	}
}

// ScanPorts probes the ports of host concurrently and returns the open ones
func (s *Scanner) ScanPorts(ctx context.Context, host string, ports []int) []models.DiscoveredInstance {
	if len(ports) == 0 {
		ports = DefaultPorts
	}

	var (
		mu        sync.Mutex
		instances = make([]models.DiscoveredInstance, 0, len(ports))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, port := range ports {
		port := port
		g.Go(func() error {
			instance := s.probe(gctx, host, port)
			if instance.Available {
				mu.Lock()
				instances = append(instances, instance)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(instances, func(i, j int) bool { return instances[i].Port < instances[j].Port })
	return instances
}

// probe checks whether a port accepts TCP connections
func (s *Scanner) probe(ctx context.Context, host string, port int) models.DiscoveredInstance {
	instance := models.DiscoveredInstance{
		Host:   host,
		Port:   port,
		URI:    fmt.Sprintf("mongodb://%s:%d", host, port),
		Source: models.SourcePortScan,
	}

	start := time.Now()
	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	instance.ResponseTime = time.Since(start)
	if err != nil {
		return instance
	}

	_ = conn.Close()
	instance.Available = true
	return instance
}

// ScanLocalhost scans the default ports on localhost
func (s *Scanner) ScanLocalhost(ctx context.Context) []models.DiscoveredInstance {
	return s.ScanPorts(ctx, "localhost", DefaultPorts)
}
