package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gadgetbot/internal/graph"
	"gadgetbot/internal/model"
	"gadgetbot/internal/observability"
	"gadgetbot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	calls    int
	messages []string
	resp     *model.ChatResponse
	err      error
}

func (f *fakeChat) Chat(_ context.Context, message string) (*model.ChatResponse, error) {
	f.calls++
	f.messages = append(f.messages, message)
	return f.resp, f.err
}

func newTestRouter(chat ChatResponder, g GraphInfo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Chat:    chat,
		Graph:   g,
		Build:   BuildInfo{Version: "test"},
		Metrics: observability.NewCollector("test"),
	})
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	chat := &fakeChat{}
	router := newTestRouter(chat, nil)

	bodies := []string{
		`{}`,
		`{"message": ""}`,
		`{"message": "   "}`,
		`{"message": null}`,
		`not json`,
		``,
	}
	for _, body := range bodies {
		for _, path := range []string{"/chat", "/api/v1/chat"} {
			w := doRequest(router, http.MethodPost, path, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%s %q", path, body)
			assert.Contains(t, w.Body.String(), "Message is empty")
		}
	}
	assert.Zero(t, chat.calls)
}

func TestChat_Success(t *testing.T) {
	chat := &fakeChat{resp: &model.ChatResponse{
		Response: "Poco F5 cocok buat gaming.",
		DebugFacts: []model.Fact{{
			Model: "Poco F5",
			Price: 4_800_000,
			Store: "Poco Store",
			Tags:  []string{model.TagGamingCapable},
		}},
	}}
	router := newTestRouter(chat, nil)

	w := doRequest(router, http.MethodPost, "/chat", `{"message": "hp poco gaming"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Poco F5 cocok buat gaming.", body["response"])
	facts, ok := body["debug_facts"].([]any)
	require.True(t, ok)
	assert.Len(t, facts, 1)

	assert.Equal(t, []string{"hp poco gaming"}, chat.messages)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "graph unavailable", err: fmt.Errorf("%w: parse", service.ErrGraphUnavailable), code: http.StatusServiceUnavailable},
		{name: "empty message", err: service.ErrEmptyMessage, code: http.StatusBadRequest},
		{name: "other", err: fmt.Errorf("unexpected"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeChat{err: tt.err}, nil)
			w := doRequest(router, http.MethodPost, "/chat", `{"message": "hp samsung"}`)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequestID_Propagates(t *testing.T) {
	router := newTestRouter(&fakeChat{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestHealth_GraphStatus(t *testing.T) {
	store, err := graph.LoadReader(strings.NewReader(`
triple(/gadget/sku_poco_f5, /rdf/type, /ex/smartphone).
triple(/gadget/sku_poco_f5, /ex/has_model, "Poco F5").
triple(/gadget/sku_poco_f5, /ex/has_brand, "Poco").
triple(/gadget/sku_poco_f5, /ex/has_ram, 12).
triple(/gadget/sku_poco_f5, /ex/has_processor, "Snapdragon 7+ Gen 2").
triple(/gadget/sku_poco_f5, /ex/has_storage, 256).
`))
	require.NoError(t, err)

	empty, err := graph.LoadReader(strings.NewReader(""))
	require.NoError(t, err)

	var missing *graph.Store

	tests := []struct {
		name    string
		graph   GraphInfo
		status  string
		triples int
		devices int
	}{
		{name: "loaded", graph: store, status: graph.StatusLoaded, triples: 6, devices: 1},
		{name: "empty", graph: empty, status: graph.StatusEmpty},
		{name: "nil store", graph: missing, status: graph.StatusUnavailable},
		{name: "no graph", graph: nil, status: graph.StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeChat{}, tt.graph)

			for _, path := range []string{"/", "/health"} {
				w := doRequest(router, http.MethodGet, path, "")
				require.Equal(t, http.StatusOK, w.Code)

				var resp model.HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "running", resp.Status)
				assert.Equal(t, tt.status, resp.KnowledgeGraph)
				assert.Equal(t, tt.triples, resp.Triples)
				assert.Equal(t, tt.devices, resp.Devices)
			}
		})
	}
}

func TestRouter_MiscRoutes(t *testing.T) {
	router := newTestRouter(&fakeChat{}, nil)

	w := doRequest(router, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"test"`)

	w = doRequest(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")

	w = doRequest(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
