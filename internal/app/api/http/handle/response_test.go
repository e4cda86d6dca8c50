package handle

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"restopos/internal/pos/core"
)

func TestFailStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad input", core.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: unknown status", core.ErrInvalidState), http.StatusBadRequest},
		{fmt.Errorf("%w: no such order", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: session already open", core.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: query failed", core.ErrStorage), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Fail(c, tc.err)
		assert.Equal(t, tc.want, w.Code, "error: %v", tc.err)
	}
}

func TestFailHidesStorageDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Fail(c, fmt.Errorf("%w: connection refused to 10.0.0.5", core.ErrStorage))

	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := pathID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = pathID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
