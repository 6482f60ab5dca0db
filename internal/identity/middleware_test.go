package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(requireBearer bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireCaller(requireBearer))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/whoami", func(c *gin.Context) {
		caller, ok := FromGin(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, caller.UserID+"/"+caller.Account(""))
	})
	return r
}

func TestRequireCallerHeaders(t *testing.T) {
	r := newRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set(HeaderUserID, "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "u1/"+DefaultTradeAccount {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}

	req.Header.Set(HeaderTradeAccount, "ira")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "u1/ira" {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestRequireCallerBearer(t *testing.T) {
	r := newRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set(HeaderUserID, "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401 without bearer", w.Code)
	}

	req.Header.Set("Authorization", "Bearer abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCallerAccountPrecedence(t *testing.T) {
	c := Caller{UserID: "u1", TradeAccount: "hdr"}
	if got := c.Account(" form "); got != "form" {
		t.Fatalf("got %q", got)
	}
	if got := c.Account(""); got != "hdr" {
		t.Fatalf("got %q", got)
	}
}
