package bhttp

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/byo/contentstore/blob"
	"github.com/stretchr/testify/require"
)

func TestPutThenGetRoundTrip(t *testing.T) {
	store := blob.NewMemStore()
	srv := httptest.NewServer(Handler(store))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/", "application/octet-stream", bytes.NewBufferString("hello bhttp"))
	require.NoError(t, err)
	defer resp.Body.Close()
	// POST is unsupported; real uploads go through PUT.
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/", bytes.NewBufferString("hello bhttp"))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	hashBytes, err := io.ReadAll(putResp.Body)
	require.NoError(t, err)
	hash := string(hashBytes)
	require.Len(t, hash, 40)

	getResp, err := http.Get(srv.URL + "/" + hash)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	got, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello bhttp", string(got))
}

func TestGetMissingIs404(t *testing.T) {
	store := blob.NewMemStore()
	srv := httptest.NewServer(Handler(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/0000000000000000000000000000000000000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetInvalidHashIs404(t *testing.T) {
	store := blob.NewMemStore()
	srv := httptest.NewServer(Handler(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/not-a-hash")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutWithMatchingNameSucceeds(t *testing.T) {
	store := blob.NewMemStore()
	srv := httptest.NewServer(Handler(store))
	defer srv.Close()

	h, err := blob.PutString(t.Context(), store, "already known")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/"+h.String(), bytes.NewBufferString("already known"))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutWithMismatchedNameIs400(t *testing.T) {
	store := blob.NewMemStore()
	srv := httptest.NewServer(Handler(store))
	defer srv.Close()

	wrongHash := "1111111111111111111111111111111111111111"
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/"+wrongHash, bytes.NewBufferString("content"))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
