package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyweb/internal/assets"
	"tinyweb/internal/fixed"
	"tinyweb/internal/route"
)

func serve(t *testing.T, table *route.Table, raw string) *route.Context {
	t.Helper()
	c := route.NewContext()
	c.Reset()
	c.Request.Parse([]byte(raw))
	c.Path.Set(c.Request.URL())
	_, out := table.Dispatch(c)
	require.Equal(t, route.Answered, out)
	return c
}

func TestStatic(t *testing.T) {
	table := route.NewTable(route.Route{Path: "/", File: assets.Index, Get: Static{}})
	c := serve(t, table, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")

	assert.Contains(t, string(c.Response.Head()), "Content-Type: "+assets.Index.Type+"\r\n")
	assert.Equal(t, assets.Index.Bytes(), c.Response.Body())
	assert.Same(t, &assets.Index.Bytes()[0], &c.Response.Body()[0])
}

func TestStaticWithoutFileDeclines(t *testing.T) {
	table := route.NewTable(route.Route{Path: "/", Get: Static{}})
	c := route.NewContext()
	c.Request.Parse([]byte("GET / HTTP/1.1\r\n\r\n"))
	c.Path.Set(c.Request.URL())
	_, out := table.Dispatch(c)
	assert.Equal(t, route.Declined, out)
}

func TestStatus(t *testing.T) {
	status, err := NewStatus()
	require.NoError(t, err)
	table := route.NewTable(route.Route{Path: "/status", Get: status})

	c := serve(t, table, "GET /status HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nConnection: close\r\n\r\n", string(c.Response.Head()))
	assert.Equal(t, "{\n  \"param_1\": \"HTTP/1.0\",\n  \"param_2\": \"200 OK\"\n}\n", string(c.Response.Body()))
}

func TestProfileGet(t *testing.T) {
	get, err := NewProfileGet("user")
	require.NoError(t, err)
	table := route.NewTable(route.Route{Path: "/profile", Get: get})

	c := serve(t, table, "GET /profile HTTP/1.1\r\n\r\n")
	assert.Equal(t, "{\n  \"param_1\": \"user\",\n  \"param_2\": \"HTTP/1.1\"\n}\n", string(c.Response.Body()))
}

func TestTemplatePlaceholderCount(t *testing.T) {
	_, err := NewTemplate(assets.StatusJSON, Protocol)
	require.ErrorIs(t, err, ErrPlaceholderCount)
	assert.Contains(t, err.Error(), "status.json has 2, got 1")

	_, err = NewTemplate(assets.New("plain.txt", "", "no slots"), Literal("x"))
	require.ErrorIs(t, err, ErrPlaceholderCount)

	tpl, err := NewTemplate(assets.New("plain.txt", "", "no slots"))
	require.NoError(t, err)
	assert.NotNil(t, tpl)
}

func TestTemplateBodyIsBounded(t *testing.T) {
	tpl, err := NewTemplate(assets.New("big.json", "application/json", "[%s]"), Literal(strings.Repeat("x", 2*fixed.BodySize)))
	require.NoError(t, err)
	table := route.NewTable(route.Route{Path: "/big", Get: tpl})

	c := serve(t, table, "GET /big HTTP/1.1\r\n\r\n")
	assert.Len(t, c.Response.Body(), fixed.BodySize-1)
	assert.True(t, c.Response.Truncated())
}

func TestProfilePost(t *testing.T) {
	table := route.NewTable(route.Route{Path: "/profile", Post: ProfilePost{Field: "user"}})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"echo", `{"user":"alice"}`, `{"user": "alice"}`},
		{"spaces and other keys", `{ "id": 7, "user" : "bob" }`, `{"user": "bob"}`},
		{"first occurrence wins", `{"user":"first","user":"second"}`, `{"user": "first"}`},
		{"missing field", `{"name":"alice"}`, `{"user": ""}`},
		{"no object", `user=alice`, `{"user": ""}`},
		{"empty body", ``, `{"user": ""}`},
		{"garbage before object", `xx{"user":"carol"}yy`, `{"user": "carol"}`},
		{"primitive value", `{"user":42}`, `{"user": "42"}`},
		{"unterminated object", `{"user":"dave"`, `{"user": "dave"}`},
		{"value cut to capacity", `{"user":"abcdefghijklmnopqrstuvwxyz"}`, `{"user": "abcdefghijklmno"}`},
		{"dangling escape dropped", `{"user":"abcdefghijklmn\"q"}`, `{"user": "abcdefghijklmn"}`},
		{"string value matching the field takes the next key", `{"name":"user","user":"bob"}`, `{"user": "user"}`},
		{"nested object before the cut", `{"a":{"user":"erin"},"b":1}`, `{"user": "erin"}`},
		{"array element matching the field", `{"list":["user","frank"]}`, `{"user": "frank"}`},
		{"object value copied raw", `{"user":{"k":1}}`, `{"user": {"k":1}}`},
		{"value cut inside a string", `{"user":"gr`, `{"user": ""}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := serve(t, table, "POST /profile HTTP/1.1\r\nContent-Type: application/json\r\n\r\n"+tc.body)
			assert.Contains(t, string(c.Response.Head()), "Content-Type: application/json\r\n")
			assert.Equal(t, tc.want, string(c.Response.Body()))
		})
	}
}

func TestProfilePostReportsValueTruncation(t *testing.T) {
	table := route.NewTable(route.Route{Path: "/profile", Post: ProfilePost{Field: "user"}})
	c := serve(t, table, "POST /profile HTTP/1.1\r\n\r\n{\"user\":\"abcdefghijklmnopqrstuvwxyz\"}")
	assert.True(t, c.Value.Truncated())
	assert.Equal(t, fixed.JSONValueSize-1, c.Value.Len())
}
