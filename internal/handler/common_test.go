package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxFor(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPathID(t *testing.T) {
	c := ctxFor("/")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if id, ok := pathID(c); !ok || id != 42 {
		t.Errorf("pathID = %d,%v, want 42,true", id, ok)
	}

	for _, bad := range []string{"", "0", "-1", "abc"} {
		c.SetParamValues(bad)
		if _, ok := pathID(c); ok {
			t.Errorf("pathID accepted %q", bad)
		}
	}
}

func TestQueryID(t *testing.T) {
	if id, ok := queryID(ctxFor("/?account_id=3"), "account_id"); !ok || id != 3 {
		t.Errorf("queryID = %d,%v, want 3,true", id, ok)
	}
	// Absent parameter means no filter, not an error.
	if id, ok := queryID(ctxFor("/"), "account_id"); !ok || id != 0 {
		t.Errorf("absent param: queryID = %d,%v, want 0,true", id, ok)
	}
	if _, ok := queryID(ctxFor("/?account_id=zero"), "account_id"); ok {
		t.Error("queryID accepted a non-numeric value")
	}
	if _, ok := queryID(ctxFor("/?account_id=0"), "account_id"); ok {
		t.Error("queryID accepted zero")
	}
}

func TestGetAccountIDClaimTypes(t *testing.T) {
	c := ctxFor("/")
	for _, v := range []interface{}{uint64(9), int(9), int64(9), float64(9), "9"} {
		c.Set("account_id", v)
		id, err := getAccountID(c)
		if err != nil || id != 9 {
			t.Errorf("getAccountID(%T) = %d,%v, want 9", v, id, err)
		}
	}
	c.Set("account_id", nil)
	if _, err := getAccountID(c); err == nil {
		t.Error("nil claim accepted")
	}
}
