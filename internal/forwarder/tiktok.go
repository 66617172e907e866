package forwarder

import (
    "context"
    "net/http"
    "time"

    "github.com/storosso/gtm-server-storosso/internal/event"
)

const tiktokTrackURL = "https://business-api.tiktok.com/open_api/v1.3/event/track/"

// TikTok forwards event batches to the TikTok Events API. Unlike the
// Meta side there is no commerce/non-commerce split: whatever reaches
// this bucket is forwarded with its fields intact.
type TikTok struct {
    pixelID string
    token   string
    baseURL string
    timeout time.Duration
    client  *http.Client
    now     func() time.Time
}

func NewTikTok(pixelID, token string, timeout time.Duration) *TikTok {
    return &TikTok{
        pixelID: pixelID,
        token:   token,
        baseURL: tiktokTrackURL,
        timeout: timeout,
        client:  &http.Client{},
        now:     time.Now,
    }
}

func (t *TikTok) Platform() string { return event.PlatformTikTok }

func (t *TikTok) Send(ctx context.Context, events []event.RawEvent, meta RequestMeta) (Result, error) {
    data := make([]map[string]any, 0, len(events))
    for _, e := range events {
        data = append(data, t.buildEvent(e, meta))
    }
    payload := map[string]any{
        "event_source":    "web",
        "event_source_id": t.pixelID,
        "data":            data,
    }
    headers := map[string]string{"Access-Token": t.token}
    return postJSON(ctx, t.client, t.timeout, t.Platform(), t.baseURL, headers, payload)
}

func (t *TikTok) buildEvent(e event.RawEvent, meta RequestMeta) map[string]any {
    name := event.NormalizeName(e.GetString("event_name"))
    // The API validates either the legacy event_time/event_type pair or
    // the newer timestamp/event pair depending on account setup. Both
    // must derive from the same source time or skewed client clocks
    // would make them disagree.
    ts := eventTime(e, t.now)
    return map[string]any{
        "event_time": ts,
        "event_type": name,
        "timestamp":  time.Unix(ts, 0).UTC().Format(time.RFC3339),
        "event":      name,
        "context":    tiktokContext(e, meta),
        "properties": tiktokProperties(e),
    }
}

func tiktokContext(e event.RawEvent, meta RequestMeta) map[string]any {
    ctx := map[string]any{
        "user": map[string]any{
            "external_id": e.GetString("user_data.external_id"),
            "email":       e.GetString("user_data.em"),
            "phone":       e.GetString("user_data.ph"),
            "ip":          orDefault(e.GetString("user_data.client_ip_address"), meta.ClientIP),
            "user_agent":  orDefault(e.GetString("user_data.client_user_agent"), meta.UserAgent),
        },
        "page": map[string]any{
            "url":      e.GetString("event_source_url"),
            "referrer": e.GetString("referrer"),
        },
    }
    if clickID := e.GetString("user_data.ttclid"); clickID != "" {
        ctx["ad"] = map[string]any{"callback": clickID}
    }
    return ctx
}

func tiktokProperties(e event.RawEvent) map[string]any {
    items := event.ExtractLineItems(e)
    return map[string]any{
        "currency":     event.Currency(e),
        "value":        event.ComputeValue(items, e.Get("custom_data.value")),
        "order_id":     e.GetString("custom_data.order_id"),
        "content_type": orDefault(e.GetString("custom_data.content_type"), "product"),
        "contents":     tiktokContents(items),
    }
}

func tiktokContents(items []event.LineItem) []map[string]any {
    out := make([]map[string]any, 0, len(items))
    for _, li := range items {
        out = append(out, map[string]any{
            "content_id":   li.ID,
            "content_name": li.Name,
            "quantity":     li.Quantity,
            "price":        li.UnitPrice,
        })
    }
    return out
}
