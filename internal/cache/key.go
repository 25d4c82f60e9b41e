package cache

import (
	"fmt"
	"strconv"

	"github.com/minio/highwayhash"
	"go.mongodb.org/mongo-driver/bson"
)

// hashKey is the fixed 32 byte HighwayHash key; keys only need to be stable within a process
var hashKey = []byte("lazymongo.page-cache.highwayhash")

// Fingerprint hashes the canonical Extended JSON of doc
func Fingerprint(doc any) (string, error) {
	data, err := bson.MarshalExtJSON(doc, true, false)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint query: %w", err)
	}
	return strconv.FormatUint(highwayhash.Sum64(data, hashKey), 16), nil
}

// PageKey identifies one page of a find
func PageKey(collection string, filter bson.D, skip, limit int64, sortColumn string, sortDir int) (string, error) {
	fp, err := Fingerprint(filter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("page:%s:%s:%d:%d:%s:%d", collection, fp, skip, limit, sortColumn, sortDir), nil
}

// CountKey identifies the document count of a filter
func CountKey(collection string, filter bson.D) (string, error) {
	fp, err := Fingerprint(filter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("count:%s:%s", collection, fp), nil
}

// PipelineKey identifies the result of an aggregation pipeline
func PipelineKey(collection string, pipeline any) (string, error) {
	fp, err := Fingerprint(bson.D{{Key: "pipeline", Value: pipeline}})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("agg:%s:%s", collection, fp), nil
}
