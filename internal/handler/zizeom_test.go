package handler

import (
	"net/http"
	"testing"
)

func TestZizeomCreateNamesFirstMissingField(t *testing.T) {
	h := &ZizeomHandler{}

	cases := []struct {
		body string
		want string
	}{
		{`{}`, "name is required"},
		{`{"name":"Gangnam"}`, "address is required"},
		{`{"name":"Gangnam","address":"Seoul"}`, "phone is required"},
		{`{"name":"Gangnam","address":"Seoul","phone":"02"}`, "ownFilmAmount is required"},
		{`{"name":"Gangnam","address":"Seoul","phone":"02","ownFilmAmount":500}`, "consumedFilmAmount is required"},
		{`{"name":"Gangnam","address":"Seoul","phone":"02","ownFilmAmount":500,"consumedFilmAmount":0}`, "accountId is required"},
	}
	for _, tc := range cases {
		rec := postJSON(t, h.Create, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", tc.body, rec.Code)
			continue
		}
		if got := errorMessage(t, rec); got != tc.want {
			t.Errorf("body %s: error = %q, want %q", tc.body, got, tc.want)
		}
	}
}

// An explicit zero counter is a valid value, not a missing field; the
// pointer fields must distinguish the two.
func TestZizeomCreateAcceptsExplicitZero(t *testing.T) {
	body := createZizeomReq{}
	if err := validate.Struct(body); err == nil {
		t.Fatal("empty request passed validation")
	}
	zero := int64(0)
	full := createZizeomReq{
		Name:               "Gangnam",
		Address:            "Seoul",
		Phone:              "02",
		OwnFilmAmount:      &zero,
		ConsumedFilmAmount: &zero,
		AccountID:          3,
	}
	if err := validate.Struct(full); err != nil {
		t.Errorf("explicit zero counters rejected: %v", err)
	}
}

func TestZizeomCreateRejectsNegativeCounter(t *testing.T) {
	h := &ZizeomHandler{}
	body := `{"name":"Gangnam","address":"Seoul","phone":"02","ownFilmAmount":-1,"consumedFilmAmount":0,"accountId":3}`
	rec := postJSON(t, h.Create, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, rec); got != "ownFilmAmount is invalid" {
		t.Errorf("error = %q, want ownFilmAmount is invalid", got)
	}
}
