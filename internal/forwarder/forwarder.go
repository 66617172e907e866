package forwarder

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/storosso/gtm-server-storosso/internal/event"
)

// RequestMeta carries caller context from the inbound request, used to
// fill user-matching fallbacks in the destination payloads.
type RequestMeta struct {
    ClientIP  string
    UserAgent string
}

// Result is the raw outcome of one completed destination call.
type Result struct {
    Platform   string
    StatusCode int
    Body       string
}

// Forwarder sends one batch of classified events to a destination.
// A returned error means the transport itself rejected (network
// failure, timeout); destination-level error statuses come back as a
// Result with err == nil.
type Forwarder interface {
    Platform() string
    Send(ctx context.Context, events []event.RawEvent, meta RequestMeta) (Result, error)
}

// postJSON performs one outbound destination call with a bounded
// timeout. There is no retry: a failed call is surfaced once.
func postJSON(ctx context.Context, client *http.Client, timeout time.Duration, platform, url string, headers map[string]string, payload any) (Result, error) {
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    buf, err := json.Marshal(payload)
    if err != nil {
        return Result{}, fmt.Errorf("%s: marshal payload: %w", platform, err)
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
    if err != nil {
        return Result{}, fmt.Errorf("%s: build request: %w", platform, err)
    }
    req.Header.Set("Content-Type", "application/json")
    for k, v := range headers {
        req.Header.Set(k, v)
    }
    resp, err := client.Do(req)
    if err != nil {
        return Result{}, fmt.Errorf("%s: %w", platform, err)
    }
    defer resp.Body.Close()
    body, err := io.ReadAll(resp.Body)
    if err != nil {
        return Result{}, fmt.Errorf("%s: read response: %w", platform, err)
    }
    return Result{Platform: platform, StatusCode: resp.StatusCode, Body: string(body)}, nil
}

func orDefault(s, d string) string {
    if strings.TrimSpace(s) == "" {
        return d
    }
    return s
}

// eventTime returns the event's own time in whole seconds, defaulting
// to now when absent or unparsable.
func eventTime(e event.RawEvent, now func() time.Time) int64 {
    if ts := int64(event.Num(e.Get("event_time"))); ts > 0 {
        return ts
    }
    return now().Unix()
}
