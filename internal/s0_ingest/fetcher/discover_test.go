package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<a href="/about">About</a>
			<a href="files/EmployeeSampleData.ZIP?v=2">Download</a>
			<a href="/other.zip">Other</a>
		</body></html>`))
	}))
	defer server.Close()

	got, err := Discover(context.Background(), newClient(http.DefaultTransport), server.URL+"/samples/")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/samples/files/EmployeeSampleData.ZIP?v=2", got)
}

func TestDiscover_NoLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="/data.csv">csv</a>`))
	}))
	defer server.Close()

	_, err := Discover(context.Background(), newClient(http.DefaultTransport), server.URL)
	assert.True(t, errors.Is(err, ErrNoArchiveLink))
}

func TestDiscover_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Discover(context.Background(), newClient(http.DefaultTransport), server.URL)
	assert.Error(t, err)
}

func TestSource_Resolve(t *testing.T) {
	got, err := Source{URL: "http://source.test/a.zip"}.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://source.test/a.zip", got)

	_, err = Source{}.Resolve(context.Background())
	assert.Error(t, err)
}

func TestSource_ResolvePrefersPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="/latest.zip">latest</a>`))
	}))
	defer server.Close()

	src := Source{URL: "http://source.test/a.zip", PageURL: server.URL, Client: newClient(http.DefaultTransport)}
	got, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/latest.zip", got)
}
