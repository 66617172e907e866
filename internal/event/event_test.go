package event

import (
    "errors"
    "testing"
)

func TestNum(t *testing.T) {
    cases := []struct {
        name string
        in   any
        want float64
    }{
        {"int", 42, 42},
        {"float", 19.99, 19.99},
        {"plain string", "12", 12},
        {"decimal string", "12.5", 12.5},
        {"comma decimal", "12,5", 12.5},
        {"euro thousands", "1.234,56", 1234.56},
        {"us thousands", "1,234.56", 1234.56},
        {"currency symbol", "€12,50", 12.5},
        {"negative", "-5", -5},
        {"nil", nil, 0},
        {"garbage", "abc", 0},
        {"empty", "", 0},
        {"bool", true, 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := Num(tc.in); got != tc.want {
                t.Fatalf("Num(%v) = %v, want %v", tc.in, got, tc.want)
            }
        })
    }
}

func TestParseBatch_SingleEvent(t *testing.T) {
    events, err := ParseBatch([]byte(`{"event_name":"page_view"}`))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(events) != 1 || events[0].GetString("event_name") != "page_view" {
        t.Fatalf("unexpected events: %+v", events)
    }
}

func TestParseBatch_DataArray(t *testing.T) {
    events, err := ParseBatch([]byte(`{"data":[{"event_name":"a"},{"event_name":"b"}]}`))
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(events) != 2 {
        t.Fatalf("expected 2 events, got %d", len(events))
    }
    if events[0].GetString("event_name") != "a" || events[1].GetString("event_name") != "b" {
        t.Fatalf("order not preserved: %+v", events)
    }
}

func TestParseBatch_Errors(t *testing.T) {
    if _, err := ParseBatch([]byte("  \n ")); !errors.Is(err, ErrEmptyBody) {
        t.Fatalf("expected ErrEmptyBody, got %v", err)
    }
    if _, err := ParseBatch([]byte(`{"data":[]}`)); !errors.Is(err, ErrEmptyBody) {
        t.Fatalf("expected ErrEmptyBody for empty data array, got %v", err)
    }
    if _, err := ParseBatch([]byte(`{"broken":`)); !errors.Is(err, ErrInvalidJSON) {
        t.Fatalf("expected ErrInvalidJSON, got %v", err)
    }
}

func TestGetString_DotPathFallbacks(t *testing.T) {
    e := RawEvent{
        "custom_data": map[string]any{"currency": "USD"},
        "user_data":   map[string]any{"em": " "},
    }
    if got := e.GetString("custom_data.currency"); got != "USD" {
        t.Fatalf("expected USD, got %q", got)
    }
    // blank strings do not satisfy a lookup
    if got := e.GetString("user_data.em", "custom_data.currency"); got != "USD" {
        t.Fatalf("expected fallback to USD, got %q", got)
    }
    if got := e.GetString("missing", "also.missing"); got != "" {
        t.Fatalf("expected empty, got %q", got)
    }
}

func TestItems_FirstNonEmptySource(t *testing.T) {
    e := RawEvent{
        "ecommerce": map[string]any{
            "add": map[string]any{
                "products": []any{map[string]any{"id": "p1"}},
            },
        },
    }
    items := e.Items("custom_data.contents", "ecommerce.add.products")
    if len(items) != 1 || items[0].GetString("id") != "p1" {
        t.Fatalf("unexpected items: %+v", items)
    }
}
