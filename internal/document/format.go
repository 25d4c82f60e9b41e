package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatValue renders a field value for a table cell
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case bson.A:
		return fmt.Sprintf("[%d]", len(v))
	case []any:
		return fmt.Sprintf("[%d]", len(v))
	case bson.D, bson.M, map[string]any:
		return "{...}"
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return v.String()
	case primitive.Binary:
		return fmt.Sprintf("<binary %d bytes>", len(v.Data))
	case primitive.Regex:
		return "/" + v.Pattern + "/" + v.Options
	case primitive.Timestamp:
		return fmt.Sprintf("Timestamp(%d, %d)", v.T, v.I)
	case primitive.Null, primitive.Undefined:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Format renders a document as indented relaxed Extended JSON
func Format(doc any) (string, error) {
	if doc == nil {
		return "null", nil
	}
	data, err := bson.MarshalExtJSONIndent(doc, false, false, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format document: %w", err)
	}
	return string(data), nil
}

// Compact renders a document as single-line relaxed Extended JSON
func Compact(doc any) (string, error) {
	if doc == nil {
		return "null", nil
	}
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", fmt.Errorf("failed to compact document: %w", err)
	}
	return string(data), nil
}

// Truncate shortens a JSON string for table display
func Truncate(jsonStr string, maxLen int) string {
	if maxLen < 4 || len(jsonStr) <= maxLen {
		return jsonStr
	}

	truncated := jsonStr[:maxLen-3]

	// Prefer a structural boundary
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > maxLen/2 {
		truncated = truncated[:lastGood]
	}

	return truncated + "..."
}
