package pinterest

import (
	"strconv"
	"time"

	"pinterest-forwarder/internal/model"
)

const (
	// versionTag is the constant `mh` value Pinterest's own tag sends.
	versionTag = "2424edb5"
	// defaultTagManager is sent as pd[tm] unless the payload overrides it.
	defaultTagManager = "pinterest-mc"
)

// reservedKeys are extracted from the payload and never forwarded in `ed`.
var reservedKeys = []string{"pd[em]", "pdem", "tid", "tm", "ecommerce"}

// AutomaticData is serialized into the `ad` parameter.
type AutomaticData struct {
	Loc string `json:"loc"`
	Ref string `json:"ref"`
	If  bool   `json:"if"`
	SH  string `json:"sh,omitempty"`
	SW  string `json:"sw,omitempty"`
	MH  string `json:"mh"`
}

// Param is one query parameter of the outbound request.
type Param struct {
	Key   string
	Value string
}

// RequestBody is the ordered parameter list sent to Pinterest. The order of
// the slice is the order of the query string.
type RequestBody []Param

// Get returns the value of key.
func (b RequestBody) Get(key string) (string, bool) {
	for _, p := range b {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Keys returns the parameter names in order.
func (b RequestBody) Keys() []string {
	keys := make([]string, len(b))
	for i, p := range b {
		keys[i] = p.Key
	}
	return keys
}

// BodyBuilder assembles RequestBody values for events.
type BodyBuilder struct {
	now func() time.Time
}

// NewBodyBuilder returns a BodyBuilder reading the wall clock.
func NewBodyBuilder() *BodyBuilder {
	return &BodyBuilder{now: time.Now}
}

// Build assembles the outbound parameters for event. Missing optional data
// drops the matching parameter; it never fails.
func (b *BodyBuilder) Build(eventType string, event model.Event, settings model.Settings) RequestBody {
	client := event.Client
	payload := event.Payload

	ad := AutomaticData{
		Loc: client.URL,
		Ref: client.Referer,
		If:  false,
		MH:  versionTag,
	}
	if client.ScreenHeight != nil {
		ad.SH = strconv.Itoa(*client.ScreenHeight)
	}
	if client.ScreenWidth != nil {
		ad.SW = strconv.Itoa(*client.ScreenWidth)
	}
	adJSON, _ := model.MarshalJSON(ad)

	tid := settings.Get("tid")
	if v, ok := payload.Get("tid"); ok && truthy(v) {
		tid = stringify(v)
	}

	if mapped, ok := MapEventName(eventType); ok {
		eventType = mapped
	}

	body := RequestBody{
		{Key: "ad", Value: string(adJSON)},
		{Key: "cb", Value: strconv.FormatInt(b.now().UnixMilli(), 10)},
		{Key: "tid", Value: tid},
		{Key: "event", Value: eventType},
	}

	// pd - partner data
	if email, ok := partnerEmail(payload); ok {
		body = append(body, Param{Key: "pd[em]", Value: email})
	}
	tm := defaultTagManager
	if v, ok := payload.Get("tm"); ok && truthy(v) {
		tm = stringify(v)
	}
	body = append(body, Param{Key: "pd[tm]", Value: tm})

	clean := payload.Clone()
	for _, key := range reservedKeys {
		clean.Delete(key)
	}
	ecommerce, _ := payload.Get("ecommerce")
	for _, f := range FlattenEcommerce(ecommerce) {
		clean.Set(f.Key, f.Value)
	}

	if clean.Len() > 0 {
		if ed, err := model.MarshalJSON(clean); err == nil {
			body = append(body, Param{Key: "ed", Value: string(ed)})
		}
	}

	return body
}

func partnerEmail(payload model.Payload) (string, bool) {
	for _, key := range []string{"pd[em]", "pdem"} {
		if v, ok := payload.Get(key); ok && truthy(v) {
			return stringify(v), true
		}
	}
	return "", false
}
