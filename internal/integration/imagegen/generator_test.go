package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrapix-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIGenerator(config.ImageGenConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
}

// 测试内容：验证生成成功时返回解码后的图片字节，并按 b64_json 请求。
func TestOpenAIGenerator_Generate(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a red fox", body["prompt"])
		assert.Equal(t, "b64_json", body["response_format"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	})

	data, err := g.Generate(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

// 测试内容：验证上游返回错误时透传错误。
func TestOpenAIGenerator_UpstreamError(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"content policy","type":"invalid_request_error"}}`))
	})

	_, err := g.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content policy")
}

// 测试内容：验证上游返回空数据时返回 ErrEmptyResult。
func TestOpenAIGenerator_EmptyData(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
	})

	_, err := g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResult)
}
