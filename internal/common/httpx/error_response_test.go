package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrapix-server/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试内容：验证各类 ServiceError 映射到正确的 HTTP 状态码与统一错误体。
func TestWriteServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{common.NewValidationError("bad"), http.StatusBadRequest, "bad"},
		{common.NewUnauthorizedError("who"), http.StatusUnauthorized, "who"},
		{common.NewForbiddenError("no"), http.StatusForbidden, "no"},
		{common.NewNotFoundError("gone"), http.StatusNotFound, "gone"},
		{common.NewConflictError("dup"), http.StatusConflict, "dup"},
		{common.NewUpstreamError("gateway", errors.New("x")), http.StatusBadGateway, "gateway"},
		{common.NewInternalError("oops", nil), http.StatusInternalServerError, "oops"},
		{errors.New("raw"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		WriteServiceError(c, tc.err, "fallback")

		assert.Equal(t, tc.status, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body["message"])
	}
}
