/*
Copyright © 2022 Bartłomiej Święcki (byo)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package bhttp exposes a blob.BlobStore as a plain HTTP handler: GET to
// fetch a blob by its hex hash, PUT to store one. It is a dumb byte pipe
// onto BlobStore, not a protocol of its own.
package bhttp

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/byo/contentstore/blob"
)

type handler struct {
	store blob.BlobStore
}

// Handler returns an http.Handler that serves GET/PUT requests against
// store. A GET at "/<hex-hash>" streams the blob or 404s; a PUT at "/"
// stores the request body and returns the resulting hash as the response
// body; a PUT at "/<hex-hash>" stores the body and then fails with 400 if
// its computed hash does not match the path (the blob stays stored under
// its own hash).
func Handler(store blob.BlobStore) http.Handler {
	return &handler{store: store}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.serveGet(w, r)
	case http.MethodPut:
		h.servePut(w, r)
	default:
		http.Error(w, "unsupported method", http.StatusMethodNotAllowed)
	}
}

func (h *handler) pathHash(w http.ResponseWriter, r *http.Request) (blob.Hash, bool, error) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		return blob.Hash{}, false, nil
	}
	hash, err := blob.ParseHash(name)
	if err != nil {
		http.NotFound(w, r)
		return blob.Hash{}, false, err
	}
	return hash, true, nil
}

func (h *handler) checkErr(err error, w http.ResponseWriter) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, blob.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return false
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
	return false
}

func (h *handler) serveGet(w http.ResponseWriter, r *http.Request) {
	hash, has, err := h.pathHash(w, r)
	if err != nil {
		return
	}
	if !has {
		http.NotFound(w, r)
		return
	}

	err = h.store.Get(r.Context(), hash, w)
	h.checkErr(err, w)
}

func (h *handler) servePut(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	wantHash, hasWantHash, err := h.pathHash(w, r)
	if err != nil {
		return
	}

	got, err := h.store.Put(r.Context(), r.Body)
	if !h.checkErr(err, w) {
		return
	}

	if hasWantHash && got != wantHash {
		http.Error(w, "hash mismatch", http.StatusBadRequest)
		return
	}

	io.WriteString(w, got.String())
}
