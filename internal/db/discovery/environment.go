package discovery

import (
	"net"
	"os"
	"strconv"

	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// EnvironmentVariables are checked in order for a connection string
var EnvironmentVariables = []string{"MONGODB_URI", "MONGO_URL"}

const defaultPort = 27017

// environmentURI returns the first connection string set in the environment
func environmentURI() string {
	for _, name := range EnvironmentVariables {
		if uri := os.Getenv(name); uri != "" {
			return uri
		}
	}
	return ""
}

// ParseEnvironment reads the connection string from the environment
func ParseEnvironment() *models.DiscoveredInstance {
	uri := environmentURI()
	if uri == "" {
		return nil
	}

	cs, err := connstring.Parse(uri)
	if err != nil || len(cs.Hosts) == 0 {
		return nil
	}

	host, port := splitHostPort(cs.Hosts[0])
	return &models.DiscoveredInstance{
		Host:      host,
		Port:      port,
		URI:       uri,
		Source:    models.SourceEnvironment,
		Available: true, // Assume available, will be verified on connect
	}
}

// GetEnvironmentConfig gets connection config from environment
func GetEnvironmentConfig() *models.ConnectionConfig {
	uri := environmentURI()
	if uri == "" {
		return nil
	}

	config := &models.ConnectionConfig{
		Name: "Environment",
		URI:  uri,
	}
	if cs, err := connstring.Parse(uri); err == nil {
		config.Database = cs.Database
	}
	if db := os.Getenv("MONGODB_DATABASE"); db != "" {
		config.Database = db
	}
	config.Collection = os.Getenv("MONGODB_COLLECTION")
	return config
}

func splitHostPort(hostport string) (string, int) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		port = defaultPort
	}
	return host, port
}
