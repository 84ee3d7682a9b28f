package httpresp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParsePaging(t *testing.T) {
	cases := []struct {
		query string
		want  Paging
	}{
		{"", Paging{Page: 1, Limit: 50}},
		{"page=3&limit=20", Paging{Page: 3, Limit: 20}},
		{"page=-1&limit=0", Paging{Page: 1, Limit: 50}},
		{"page=x&limit=500", Paging{Page: 1, Limit: 50}},
		{"limit=200", Paging{Page: 1, Limit: 200}},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		assert.Equal(t, tc.want, ParsePaging(c, 50, 200), tc.query)
	}

	assert.Equal(t, 40, Paging{Page: 3, Limit: 20}.Offset())
}

func TestEmptyListsRenderArrays(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	List[int](c, nil)
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Paged[string](c, Paging{Page: 2, Limit: 10}, 11, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"page":2,"limit":10,"total":11}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Created(c, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
}
