package metadata

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rebeliceyang/lazymongo/internal/db/connection"
)

// Database represents a MongoDB database
type Database struct {
	Name       string
	SizeOnDisk int64
	Empty      bool
}

// systemDatabases are hidden from the picker
var systemDatabases = map[string]bool{
	"admin":  true,
	"config": true,
	"local":  true,
}

// ListDatabases returns the user databases of the deployment
func ListDatabases(ctx context.Context, client *connection.Client) ([]Database, error) {
	result, err := client.Mongo().ListDatabases(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	databases := make([]Database, 0, len(result.Databases))
	for _, db := range result.Databases {
		if systemDatabases[db.Name] {
			continue
		}
		databases = append(databases, Database{
			Name:       db.Name,
			SizeOnDisk: db.SizeOnDisk,
			Empty:      db.Empty,
		})
	}

	sort.Slice(databases, func(i, j int) bool { return databases[i].Name < databases[j].Name })
	return databases, nil
}

// ListCollections returns the collection names of a database, sorted
func ListCollections(ctx context.Context, client *connection.Client, database string) ([]string, error) {
	names, err := client.Mongo().Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
