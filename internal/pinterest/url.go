package pinterest

import (
	"net/url"
	"strings"
)

// BaseURL is the Pinterest tag endpoint every request is sent to.
const BaseURL = "https://ct.pinterest.com/v3/?"

// BuildURL encodes body as a query string, keeping the body order.
func BuildURL(body RequestBody) string {
	var sb strings.Builder
	sb.WriteString(BaseURL)
	for i, p := range body {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
