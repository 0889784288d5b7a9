package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupabaseStorage_RequiereCredenciales(t *testing.T) {
	_, err := NewSupabaseStorage(Config{ServiceKey: "k"})
	assert.Error(t, err)
	_, err = NewSupabaseStorage(Config{URL: "http://x"})
	assert.Error(t, err)
}

func TestUpload_EnviaCabecerasYCuerpo(t *testing.T) {
	var gotPath, gotAuth, gotType, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"media-files/products/1/a.png"}`))
	}))
	defer srv.Close()

	s, err := NewSupabaseStorage(Config{URL: srv.URL + "/", ServiceKey: "secret"})
	require.NoError(t, err)

	err = s.Upload(context.Background(), "media-files", "products/1/product_gallery/1_abc.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/media-files/products/1/product_gallery/1_abc.png", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, "png", string(gotBody))
}

func TestUpload_ErrorConMensaje(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	s, _ := NewSupabaseStorage(Config{URL: srv.URL, ServiceKey: "k"})
	err := s.Upload(context.Background(), "b", "x.png", nil, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The resource already exists")
}

func TestRemove_EnviaPrefijos(t *testing.T) {
	var payload map[string][]string
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s, _ := NewSupabaseStorage(Config{URL: srv.URL, ServiceKey: "k"})
	require.NoError(t, s.Remove(context.Background(), "b", []string{"a.png", "a_150.png"}))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, []string{"a.png", "a_150.png"}, payload["prefixes"])

	// sin rutas no hay request
	require.NoError(t, s.Remove(context.Background(), "b", nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "status 500", errorMessage(500, []byte("gateway timeout")))
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"error":"boom"}`)))
}

func TestPublicURL(t *testing.T) {
	s, _ := NewSupabaseStorage(Config{URL: "https://abc.supabase.co", ServiceKey: "k"})
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/media-files/a/b.png", s.PublicURL("media-files", "a/b.png"))
}
