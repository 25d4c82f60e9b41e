package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeName returns the BSON type alias of a decoded value
func TypeName(value any) string {
	switch value.(type) {
	case nil, primitive.Null:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int32, int:
		return "int"
	case int64:
		return "long"
	case float32, float64:
		return "double"
	case primitive.Decimal128:
		return "decimal"
	case bson.A, []any:
		return "array"
	case bson.D, bson.M, map[string]any:
		return "object"
	case primitive.ObjectID:
		return "objectId"
	case primitive.DateTime, time.Time:
		return "date"
	case primitive.Binary:
		return "binData"
	case primitive.Regex:
		return "regex"
	case primitive.Timestamp:
		return "timestamp"
	case primitive.Undefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether a type alias is a number type
func IsNumeric(typeName string) bool {
	switch typeName {
	case "int", "long", "double", "decimal":
		return true
	}
	return false
}
