package model

// EventRequest represents an incoming event payload, either from POST /events
// or from a Kafka message.
type EventRequest struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Payload Payload `json:"payload"`
	Client  Client  `json:"client"`
}

// Event is a single occurrence handed to the registered listeners.
type Event struct {
	ID      string
	Type    string
	Name    string
	Payload Payload
	Client  Client
}

// Client is the read-only browser context that came with the event.
type Client struct {
	URL          string `json:"url"`
	Referer      string `json:"referer"`
	Title        string `json:"title,omitempty"`
	ScreenHeight *int   `json:"screenHeight,omitempty"`
	ScreenWidth  *int   `json:"screenWidth,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	UserAgent    string `json:"userAgent"`
	Language     string `json:"language,omitempty"`
	IP           string `json:"ip"`
	Cookie       string `json:"cookie,omitempty"`
}

// Settings is the component settings bag, already parsed.
type Settings map[string]string

// Get returns the setting or an empty string.
func (s Settings) Get(key string) string {
	if s == nil {
		return ""
	}
	return s[key]
}
