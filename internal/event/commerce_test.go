package event

import "testing"

func TestExtractLineItems_Contents(t *testing.T) {
    e := RawEvent{
        "custom_data": map[string]any{
            "contents": []any{
                map[string]any{"id": "sku1", "quantity": 2, "item_price": "10,00"},
                map[string]any{"item_id": "sku2", "price": 3.5},
                map[string]any{"name": "mystery"},
            },
        },
    }
    items := ExtractLineItems(e)
    if len(items) != 3 {
        t.Fatalf("expected 3 items, got %d", len(items))
    }
    if items[0].ID != "sku1" || items[0].Quantity != 2 || items[0].UnitPrice != 10 {
        t.Fatalf("unexpected first item: %+v", items[0])
    }
    if items[1].ID != "sku2" || items[1].Quantity != 1 || items[1].UnitPrice != 3.5 {
        t.Fatalf("unexpected second item: %+v", items[1])
    }
    if items[2].ID != "unknown" || items[2].Quantity != 1 || items[2].UnitPrice != 0 {
        t.Fatalf("unexpected third item: %+v", items[2])
    }
}

func TestExtractLineItems_LegacyEcommerceShape(t *testing.T) {
    e := RawEvent{
        "ecommerce": map[string]any{
            "add": map[string]any{
                "products": []any{
                    map[string]any{"item_id": "legacy1", "quantity": "3", "price": "4,99"},
                },
            },
        },
    }
    items := ExtractLineItems(e)
    if len(items) != 1 {
        t.Fatalf("expected 1 item, got %d", len(items))
    }
    if items[0].ID != "legacy1" || items[0].Quantity != 3 || items[0].UnitPrice != 4.99 {
        t.Fatalf("unexpected item: %+v", items[0])
    }
}

func TestExtractLineItems_ContentsWinOverLegacy(t *testing.T) {
    e := RawEvent{
        "custom_data": map[string]any{
            "contents": []any{map[string]any{"id": "new"}},
        },
        "ecommerce": map[string]any{
            "add": map[string]any{
                "products": []any{map[string]any{"id": "old"}},
            },
        },
    }
    items := ExtractLineItems(e)
    if len(items) != 1 || items[0].ID != "new" {
        t.Fatalf("custom_data.contents should win: %+v", items)
    }
}

func TestComputeValue(t *testing.T) {
    items := []LineItem{
        {ID: "a", Quantity: 2, UnitPrice: 10},
        {ID: "b", Quantity: 1, UnitPrice: 5.5},
    }
    if got := ComputeValue(items, nil); got != 25.5 {
        t.Fatalf("summed value = %v, want 25.5", got)
    }
    if got := ComputeValue(items, "99,90"); got != 99.9 {
        t.Fatalf("explicit value must win, got %v", got)
    }
    if got := ComputeValue(nil, nil); got != 0 {
        t.Fatalf("no items and no explicit value should be 0, got %v", got)
    }
}

func TestCurrency(t *testing.T) {
    if got := Currency(RawEvent{"custom_data": map[string]any{"currency": "USD"}}); got != "USD" {
        t.Fatalf("expected USD, got %q", got)
    }
    if got := Currency(RawEvent{"ecommerce": map[string]any{"currencyCode": "GBP"}}); got != "GBP" {
        t.Fatalf("expected GBP, got %q", got)
    }
    if got := Currency(RawEvent{}); got != "EUR" {
        t.Fatalf("expected EUR default, got %q", got)
    }
}
