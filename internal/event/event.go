package event

import (
    "bytes"
    "encoding/json"
    "errors"
    "math"
    "strconv"
    "strings"
)

// RawEvent is one analytics event as emitted by the client-side tag
// manager. No schema is enforced beyond "mapping of string keys";
// the typed accessors below absorb the heterogeneous shapes real tag
// templates send.
type RawEvent map[string]any

var (
    ErrEmptyBody   = errors.New("empty body")
    ErrInvalidJSON = errors.New("invalid json")
)

// ParseBatch decodes a request body into an ordered, non-empty list of
// events. The body is either a single event object or {"data": [...]}.
func ParseBatch(body []byte) ([]RawEvent, error) {
    if len(bytes.TrimSpace(body)) == 0 {
        return nil, ErrEmptyBody
    }
    var root map[string]any
    if err := json.Unmarshal(body, &root); err != nil {
        return nil, ErrInvalidJSON
    }
    if items, ok := root["data"].([]any); ok {
        events := make([]RawEvent, 0, len(items))
        for _, it := range items {
            if m, ok := it.(map[string]any); ok {
                events = append(events, RawEvent(m))
            }
        }
        if len(events) == 0 {
            return nil, ErrEmptyBody
        }
        return events, nil
    }
    return []RawEvent{RawEvent(root)}, nil
}

// Get returns the first non-nil value among the candidate keys.
// Keys may be dot-separated paths into nested objects, mirroring the
// shapes tag templates emit ("custom_data.value", "ecommerce.add.products").
func (e RawEvent) Get(keys ...string) any {
    for _, k := range keys {
        if v := getPath(map[string]any(e), k); v != nil {
            return v
        }
    }
    return nil
}

// GetString returns the first non-empty string among the candidate keys.
func (e RawEvent) GetString(keys ...string) string {
    for _, k := range keys {
        if v := getPath(map[string]any(e), k); v != nil {
            if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
                return s
            }
        }
    }
    return ""
}

// Items returns the first non-empty array of objects among the
// candidate keys, each element converted to a RawEvent for uniform
// field access.
func (e RawEvent) Items(keys ...string) []RawEvent {
    for _, k := range keys {
        arr, ok := getPath(map[string]any(e), k).([]any)
        if !ok || len(arr) == 0 {
            continue
        }
        out := make([]RawEvent, 0, len(arr))
        for _, it := range arr {
            if m, ok := it.(map[string]any); ok {
                out = append(out, RawEvent(m))
            }
        }
        if len(out) > 0 {
            return out
        }
    }
    return nil
}

// CustomData returns the event's custom_data sub-mapping, or nil.
func (e RawEvent) CustomData() map[string]any {
    m, _ := e["custom_data"].(map[string]any)
    return m
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
    parts := strings.Split(path, ".")
    var cur any = m
    for _, p := range parts {
        mm, ok := cur.(map[string]any)
        if !ok {
            return nil
        }
        v, ok := mm[p]
        if !ok {
            return nil
        }
        cur = v
    }
    return cur
}

// Num coerces a loosely-typed value to a float64. Absent values and
// anything unparsable yield 0.
func Num(v any) float64 {
    switch t := v.(type) {
    case nil:
        return 0
    case float64:
        return t
    case float32:
        return float64(t)
    case int:
        return float64(t)
    case int64:
        return float64(t)
    case json.Number:
        f, err := t.Float64()
        if err != nil {
            return 0
        }
        return f
    case string:
        return numFromString(t)
    default:
        return 0
    }
}

// numFromString parses currency-style strings such as "1.234,56" or
// "€12,50". Everything except digits, commas, periods, and minus signs
// is stripped; commas become decimal periods; all periods except the
// last are treated as thousands separators and removed.
func numFromString(s string) float64 {
    var b strings.Builder
    for _, r := range s {
        if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
            b.WriteRune(r)
        }
    }
    cleaned := strings.ReplaceAll(b.String(), ",", ".")
    if i := strings.LastIndexByte(cleaned, '.'); i >= 0 {
        cleaned = strings.ReplaceAll(cleaned[:i], ".", "") + cleaned[i:]
    }
    f, err := strconv.ParseFloat(cleaned, 64)
    if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
        return 0
    }
    return f
}
