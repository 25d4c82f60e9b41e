package discovery

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Discoverer coordinates all discovery methods
type Discoverer struct {
	scanner *Scanner
	ports   []int
}

// NewDiscoverer creates a discoverer scanning ports on localhost
func NewDiscoverer(ports []int, timeout time.Duration) *Discoverer {
	if len(ports) == 0 {
		ports = DefaultPorts
	}
	return &Discoverer{
		scanner: NewScanner(timeout),
		ports:   ports,
	}
}

// DiscoverAll runs all discovery methods
func (d *Discoverer) DiscoverAll(ctx context.Context) []models.DiscoveredInstance {
	instances := make([]models.DiscoveredInstance, 0)

	// 1. Check environment variables
	if envInstance := ParseEnvironment(); envInstance != nil {
		instances = append(instances, *envInstance)
	}

	// 2. Scan localhost ports
	instances = append(instances, d.scanner.ScanPorts(ctx, "localhost", d.ports)...)

	instances = deduplicateInstances(instances)

	// Sort by source priority, then port
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].Source != instances[j].Source {
			return instances[i].Source < instances[j].Source
		}
		return instances[i].Port < instances[j].Port
	})

	return instances
}

// FindFirst returns the best discovered instance, if any
func (d *Discoverer) FindFirst(ctx context.Context) (models.DiscoveredInstance, bool) {
	instances := d.DiscoverAll(ctx)
	if len(instances) == 0 {
		return models.DiscoveredInstance{}, false
	}
	return instances[0], true
}

// deduplicateInstances removes duplicate host:port combinations
func deduplicateInstances(instances []models.DiscoveredInstance) []models.DiscoveredInstance {
	seen := make(map[string]models.DiscoveredInstance)

	for _, instance := range instances {
		key := normalizeHost(instance.Host) + ":" + strconv.Itoa(instance.Port)

		// Keep the one with higher priority source
		if existing, exists := seen[key]; !exists || instance.Source < existing.Source {
			seen[key] = instance
		}
	}

	result := make([]models.DiscoveredInstance, 0, len(seen))
	for _, instance := range seen {
		result = append(result, instance)
	}

	return result
}

func normalizeHost(host string) string {
	switch host {
	case "127.0.0.1", "::1":
		return "localhost"
	}
	return host
}
