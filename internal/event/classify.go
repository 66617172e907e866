package event

import "strings"

// Destination platform names. These double as the keys of the
// aggregated response body.
const (
    PlatformMeta   = "meta"
    PlatformTikTok = "tiktok"
)

// tiktokNamePrefixes force TikTok routing by naming convention, no
// matter what the platform field says. TikTok-only tags were shipped
// before the platform field existed and still rely on this carve-out.
var tiktokNamePrefixes = []string{"tt_", "video_play_"}

// Buckets holds the per-destination event lists. Input order is
// preserved within each bucket.
type Buckets struct {
    Meta   []RawEvent
    TikTok []RawEvent
}

// Classify assigns each event to exactly one destination bucket.
// Events route by their platform field; unrecognized or absent values
// fall back to Meta, matching the tag templates that predate the field.
func Classify(events []RawEvent) Buckets {
    var b Buckets
    for _, e := range events {
        if routesToTikTok(e) {
            b.TikTok = append(b.TikTok, e)
        } else {
            b.Meta = append(b.Meta, e)
        }
    }
    return b
}

func routesToTikTok(e RawEvent) bool {
    name := strings.ToLower(e.GetString("event_name"))
    for _, p := range tiktokNamePrefixes {
        if strings.HasPrefix(name, p) {
            return true
        }
    }
    return strings.ToLower(e.GetString("platform")) == PlatformTikTok
}
