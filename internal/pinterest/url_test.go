package pinterest

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildURL_EscapesKeysAndValues(t *testing.T) {
	body := RequestBody{
		{Key: "ad", Value: `{"if":false}`},
		{Key: "pd[tm]", Value: "pinterest-mc"},
		{Key: "q", Value: "a b/c"},
	}

	got := BuildURL(body)

	require.Equal(t, `https://ct.pinterest.com/v3/?ad=%7B%22if%22%3Afalse%7D&pd%5Btm%5D=pinterest-mc&q=a+b%2Fc`, got)
}

func TestBuildURL_EmptyBody(t *testing.T) {
	require.Equal(t, BaseURL, BuildURL(nil))
}

func TestBuildURL_KeepsOrderAndRoundTrips(t *testing.T) {
	ad := `{"loc":"https://127.0.0.1:1337/","ref":"https://127.0.0.1:1337/somewhere-else.html","if":false,"mh":"2424edb5"}`
	ed := `{"timestamp":1670409810,"event":"pagevisit"}`
	body := RequestBody{
		{Key: "ad", Value: ad},
		{Key: "cb", Value: "1671006315874"},
		{Key: "tid", Value: "xyz"},
		{Key: "event", Value: "pagevisit"},
		{Key: "pd[tm]", Value: "pinterest-mc"},
		{Key: "ed", Value: ed},
	}

	raw := BuildURL(body)
	require.True(t, strings.HasPrefix(raw, BaseURL))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "ct.pinterest.com", u.Host)
	require.Equal(t, "/v3/", u.Path)

	var keys []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		k, _, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		require.NoError(t, err)
		keys = append(keys, key)
	}
	require.Equal(t, []string{"ad", "cb", "tid", "event", "pd[tm]", "ed"}, keys)

	values := u.Query()
	require.Equal(t, ad, values.Get("ad"))
	require.Equal(t, "pinterest-mc", values.Get("pd[tm]"))

	var adObj map[string]any
	require.NoError(t, json.Unmarshal([]byte(values.Get("ad")), &adObj))
	require.Equal(t, false, adObj["if"])
	require.Equal(t, "2424edb5", adObj["mh"])

	require.JSONEq(t, ed, values.Get("ed"))
}
