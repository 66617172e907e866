package event

// LineItem is the canonical product tuple derived from the legacy
// commerce shapes clients send. Quantities and prices are trusted as
// supplied; missing quantity defaults to 1 and missing price to 0.
type LineItem struct {
    ID        string
    Name      string
    Quantity  float64
    UnitPrice float64
}

// ExtractLineItems derives line items from the first non-empty of
// custom_data.contents and the legacy ecommerce.add.products shape.
func ExtractLineItems(e RawEvent) []LineItem {
    items := e.Items("custom_data.contents", "ecommerce.add.products")
    if len(items) == 0 {
        return nil
    }
    out := make([]LineItem, 0, len(items))
    for _, it := range items {
        li := LineItem{
            ID:        it.GetString("id", "item_id", "content_id"),
            Name:      it.GetString("content_name", "name", "item_name"),
            Quantity:  1,
            UnitPrice: Num(it.Get("item_price", "price")),
        }
        if li.ID == "" {
            li.ID = "unknown"
        }
        if q := it.Get("quantity"); q != nil {
            li.Quantity = Num(q)
        }
        out = append(out, li)
    }
    return out
}

// ComputeValue returns the explicit custom_data.value when one was
// supplied, else the sum of quantity times unit price over the line
// items.
func ComputeValue(lineItems []LineItem, explicit any) float64 {
    if explicit != nil {
        return Num(explicit)
    }
    var total float64
    for _, li := range lineItems {
        total += li.Quantity * li.UnitPrice
    }
    return total
}

// Currency returns the event currency, trying custom_data first, then
// the legacy ecommerce object, defaulting to EUR.
func Currency(e RawEvent) string {
    if c := e.GetString("custom_data.currency", "ecommerce.currencyCode"); c != "" {
        return c
    }
    return "EUR"
}
