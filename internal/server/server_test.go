package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/gpucost/internal/agent"
	"github.com/agenthands/gpucost/internal/catalog"
	"github.com/agenthands/gpucost/internal/compare"
	"github.com/agenthands/gpucost/internal/knowledge"
	"github.com/agenthands/gpucost/internal/trends"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	retriever := knowledge.NewRetriever(knowledge.NewMemoryStore("test_docs"), nil)
	require.NoError(t, retriever.Populate(context.Background(), ""))

	toolset := agent.NewToolset(
		catalog.NewStoreFromSeed("", 42),
		compare.NewDefault(),
		trends.NewDefault(),
		retriever,
	)
	return &Server{Toolset: toolset, logger: slog.Default()}
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.SetupRouter().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["agent_ready"])
}

func TestListTools(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Tools, 4)
	names := map[string]bool{}
	for _, tool := range body.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["search_pricing"])
	assert.True(t, names["compare_prices"])
	assert.True(t, names["get_trends"])
	assert.True(t, names["search_knowledge"])
}

func TestCallTool_Success(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/tools/compare_prices",
		`{"provider1": "Azure", "provider2": "AWS", "key": "V100"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result agent.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, agent.StatusOK, result.Status)
	assert.Contains(t, w.Body.String(), `"2.8"`)
	assert.Contains(t, w.Body.String(), `"recommendation":"Azure"`)
}

func TestCallTool_TypedFailureStaysHTTP200(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/tools/compare_prices",
		`{"provider1": "AWS", "key": "V100"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result agent.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, agent.StatusInvalidArgument, result.Status)
	assert.Equal(t, "provider2", result.Field)
}

func TestCallTool_BadJSON(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/tools/get_trends", "{broken")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAsk_WithoutAgent(t *testing.T) {
	w := doRequest(t, testServer(t), http.MethodPost, "/ask", `{"question": "hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	s := testServer(t)
	s.Agent = agent.New(stubChat{}, s.Toolset, 2)

	w := doRequest(t, s, http.MethodPost, "/ask", `{"question": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAsk_Answered(t *testing.T) {
	s := testServer(t)
	s.Agent = agent.New(stubChat{}, s.Toolset, 2)

	w := doRequest(t, s, http.MethodPost, "/ask", `{"question": "How much is a V100?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "How much is a V100?", body["question"])
	assert.Equal(t, "stub answer", body["answer"])
}
