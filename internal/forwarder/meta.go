package forwarder

import (
    "context"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/storosso/gtm-server-storosso/internal/event"
)

const metaPartnerAgent = "storosso-gtm-server/1.2"

const metaBaseURL = "https://graph.facebook.com/v18.0"

// metaCommerceEvents is the canonical purchase-funnel vocabulary; only
// events normalizing into this set may carry monetary or product
// fields toward Meta.
var metaCommerceEvents = map[string]bool{
    "ViewContent":      true,
    "AddToCart":        true,
    "InitiateCheckout": true,
    "BeginCheckout":    true,
    "Purchase":         true,
}

// metaEngagementOverrides lists raw names that are always treated as
// non-commerce, taking precedence over the commerce set above. The list
// is maintained by hand on purpose: a wrong entry here degrades
// destination-side attribution, so additions go through review rather
// than a naming convention.
var metaEngagementOverrides = map[string]bool{
    "engaged_homepage": true,
    "scroll_25":        true,
    "scroll_50":        true,
    "scroll_75":        true,
    "scroll_90":        true,
    "time_on_page":     true,
    "click_cta":        true,
    "lead":             true,
    "drill_guide":      true,
}

// Meta forwards event batches to the Meta Conversions API.
type Meta struct {
    pixelID  string
    token    string
    testCode string
    baseURL  string
    timeout  time.Duration
    client   *http.Client
    now      func() time.Time
}

func NewMeta(pixelID, token, testCode string, timeout time.Duration) *Meta {
    return &Meta{
        pixelID:  pixelID,
        token:    token,
        testCode: testCode,
        baseURL:  metaBaseURL,
        timeout:  timeout,
        client:   &http.Client{},
        now:      time.Now,
    }
}

func (m *Meta) Platform() string { return event.PlatformMeta }

func (m *Meta) Send(ctx context.Context, events []event.RawEvent, meta RequestMeta) (Result, error) {
    data := make([]map[string]any, 0, len(events))
    for _, e := range events {
        data = append(data, m.buildEvent(e, meta))
    }
    payload := map[string]any{
        "data":          data,
        "access_token":  m.token,
        "partner_agent": metaPartnerAgent,
    }
    if m.testCode != "" {
        payload["test_event_code"] = m.testCode
    }
    url := fmt.Sprintf("%s/%s/events", m.baseURL, m.pixelID)
    return postJSON(ctx, m.client, m.timeout, m.Platform(), url, nil, payload)
}

func (m *Meta) buildEvent(e event.RawEvent, meta RequestMeta) map[string]any {
    rawName := e.GetString("event_name")
    name := event.NormalizeName(rawName)
    out := map[string]any{
        "event_name":       name,
        "event_time":       eventTime(e, m.now),
        "event_source_url": e.GetString("event_source_url"),
        "action_source":    orDefault(e.GetString("action_source"), "website"),
        "user_data":        metaUserData(e, meta),
        "custom_data":      metaCustomData(e, rawName, name),
    }
    // event_id drives destination-side dedup against client pixel
    // fires; pass through only when the client supplied one.
    if id := e.GetString("event_id"); id != "" {
        out["event_id"] = id
    }
    return out
}

// metaUserData builds the user_data block. Hashed identifiers (em, ph,
// external_id) are omitted entirely when absent; contact fields always
// appear, falling back to the caller's socket address, user-agent
// header, or empty string.
func metaUserData(e event.RawEvent, meta RequestMeta) map[string]any {
    ud := map[string]any{
        "client_ip_address": orDefault(e.GetString("user_data.client_ip_address"), meta.ClientIP),
        "client_user_agent": orDefault(e.GetString("user_data.client_user_agent"), meta.UserAgent),
        "fbp":               e.GetString("user_data.fbp"),
        "fbc":               e.GetString("user_data.fbc"),
    }
    for _, k := range []string{"em", "ph", "external_id"} {
        if v := e.GetString("user_data." + k); v != "" {
            ud[k] = v
        }
    }
    return ud
}

// metaCustomData builds the custom_data block. Commerce events carry
// value, currency, and product fields; everything else gets the
// caller's custom_data with all monetary and product keys stripped so
// engagement signals can never skew purchase attribution.
func metaCustomData(e event.RawEvent, rawName, name string) map[string]any {
    if metaEngagementOverrides[strings.ToLower(rawName)] || !metaCommerceEvents[name] {
        return strippedCustomData(e)
    }
    items := event.ExtractLineItems(e)
    return map[string]any{
        "value":        event.ComputeValue(items, e.Get("custom_data.value")),
        "currency":     event.Currency(e),
        "content_type": orDefault(e.GetString("custom_data.content_type"), "product"),
        "content_ids":  metaContentIDs(e, items),
        "contents":     metaContents(items),
    }
}

func strippedCustomData(e event.RawEvent) map[string]any {
    out := map[string]any{}
    for k, v := range e.CustomData() {
        switch k {
        case "value", "currency", "contents", "content_ids", "content_type":
        default:
            out[k] = v
        }
    }
    return out
}

func metaContentIDs(e event.RawEvent, items []event.LineItem) []any {
    if ids, ok := e.Get("custom_data.content_ids").([]any); ok && len(ids) > 0 {
        return ids
    }
    ids := make([]any, 0, len(items))
    for _, li := range items {
        ids = append(ids, li.ID)
    }
    return ids
}

func metaContents(items []event.LineItem) []map[string]any {
    out := make([]map[string]any, 0, len(items))
    for _, li := range items {
        out = append(out, map[string]any{
            "id":         li.ID,
            "quantity":   li.Quantity,
            "item_price": li.UnitPrice,
        })
    }
    return out
}
