package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindFocusedTime(t *testing.T, body string) (FocusedTimeRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")

	var req FocusedTimeRequest
	err := ctx.ShouldBindJSON(&req)
	return req, err
}

func TestFocusedTimeRequestBinding(t *testing.T) {
	// 不足一秒的上报取整为 0 毫秒，也得收下
	req, err := bindFocusedTime(t, `{"focusedTime":0}`)
	require.NoError(t, err)
	require.NotNil(t, req.FocusedTime)
	assert.Equal(t, 0, *req.FocusedTime)

	req, err = bindFocusedTime(t, `{"focusedTime":42000}`)
	require.NoError(t, err)
	require.NotNil(t, req.FocusedTime)
	assert.Equal(t, 42, *req.FocusedTime/1000)

	// 没带字段仍然是请求错误
	_, err = bindFocusedTime(t, `{}`)
	assert.Error(t, err)
}
