package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parsePaginationOptions(t *testing.T) {
	a := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/player", nil)
	start, rows, err := parsePaginationOptions(req)
	a.NoError(err)
	a.Equal(int64(0), start)
	a.Equal(defaultRows, rows)

	req = httptest.NewRequest(http.MethodGet, "/player?start=50&rows=25", nil)
	start, rows, err = parsePaginationOptions(req)
	a.NoError(err)
	a.Equal(int64(50), start)
	a.Equal(25, rows)

	req = httptest.NewRequest(http.MethodGet, "/player?start=-1", nil)
	_, _, err = parsePaginationOptions(req)
	a.EqualError(err, "start cannot be less than zero")

	req = httptest.NewRequest(http.MethodGet, "/player?rows=0", nil)
	_, _, err = parsePaginationOptions(req)
	a.EqualError(err, "rows must be greater than zero")

	req = httptest.NewRequest(http.MethodGet, "/player?rows=101", nil)
	_, _, err = parsePaginationOptions(req)
	a.EqualError(err, "rows cannot be greater than 100")

	req = httptest.NewRequest(http.MethodGet, "/player?start=x", nil)
	_, _, err = parsePaginationOptions(req)
	a.Error(err)
}

func Test_remoteAddr(t *testing.T) {
	a := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:55555"
	a.Equal("10.0.0.1", remoteAddr(req))

	req.RemoteAddr = "10.0.0.1"
	a.Equal("10.0.0.1", remoteAddr(req))

	req.RemoteAddr = "[::1]:55555"
	a.Equal("[::1]", remoteAddr(req))
}
