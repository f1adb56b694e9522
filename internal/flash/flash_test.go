package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenPop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	store := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	r := gin.New()
	r.GET("/add", func(c *gin.Context) {
		store.Add(c, Success, "saved")
		store.Add(c, "success_7", "receipt uploaded")
		c.Status(http.StatusNoContent)
	})
	r.GET("/show", func(c *gin.Context) {
		var texts []string
		for _, m := range store.Pop(c) {
			texts = append(texts, m.Category+":"+m.Text)
		}
		c.String(http.StatusOK, strings.Join(texts, ","))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	show := func() string {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}
	assert.Equal(t, "success:saved,success_7:receipt uploaded", show())
	assert.Equal(t, "", show())
}
