package vault

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/secretstoretest"
	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

const testToken = "test-token"

type kvEntry struct {
	data    map[string]any
	version int
}

// fakeKV simulates the subset of the Vault KV v2 HTTP API the store uses.
type fakeKV struct {
	mu          sync.Mutex
	entries     map[string]*kvEntry // keyed by path below the mount, e.g. "accounts/a1"
	unavailable bool
	requests    []string
}

func newFakeKV(t *testing.T) (*fakeKV, *httptest.Server) {
	t.Helper()
	kv := &fakeKV{entries: make(map[string]*kvEntry)}
	srv := httptest.NewServer(http.HandlerFunc(kv.serve))
	t.Cleanup(srv.Close)
	return kv, srv
}

func versionMetadata(version int) map[string]any {
	return map[string]any{
		"version":         version,
		"created_time":    "2024-05-01T10:00:00Z",
		"deletion_time":   "",
		"destroyed":       false,
		"custom_metadata": nil,
	}
}

func writeKVJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (kv *fakeKV) serve(w http.ResponseWriter, r *http.Request) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.requests = append(kv.requests, r.Method+" "+r.URL.Path)

	if r.Header.Get("X-Vault-Token") != testToken {
		writeKVJSON(w, http.StatusForbidden, map[string]any{"errors": []string{"permission denied"}})
		return
	}
	if kv.unavailable {
		writeKVJSON(w, http.StatusServiceUnavailable, map[string]any{"errors": []string{"Vault is sealed"}})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/secret/")

	switch {
	case strings.HasPrefix(path, "data/"):
		name := strings.TrimPrefix(path, "data/")
		kv.serveData(w, r, name)

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "metadata/"):
		delete(kv.entries, strings.TrimPrefix(path, "metadata/"))
		w.WriteHeader(http.StatusNoContent)

	default:
		writeKVJSON(w, http.StatusNotFound, map[string]any{"errors": []string{}})
	}
}

func (kv *fakeKV) serveData(w http.ResponseWriter, r *http.Request, name string) {
	entry, exists := kv.entries[name]

	switch r.Method {
	case http.MethodGet:
		if !exists {
			writeKVJSON(w, http.StatusNotFound, map[string]any{"errors": []string{}})
			return
		}
		writeKVJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"data":     entry.data,
				"metadata": versionMetadata(entry.version),
			},
		})

	case http.MethodPut, http.MethodPost:
		var body struct {
			Data    map[string]any `json:"data"`
			Options map[string]any `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeKVJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{err.Error()}})
			return
		}
		current := 0
		if exists {
			current = entry.version
		}
		if cas, ok := body.Options["cas"].(float64); ok && int(cas) != current {
			writeKVJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []string{"check-and-set parameter did not match the current version"},
			})
			return
		}
		kv.entries[name] = &kvEntry{data: body.Data, version: current + 1}
		writeKVJSON(w, http.StatusOK, map[string]any{"data": versionMetadata(current + 1)})

	case http.MethodPatch:
		if !exists {
			writeKVJSON(w, http.StatusNotFound, map[string]any{"errors": []string{}})
			return
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeKVJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{err.Error()}})
			return
		}
		for k, v := range body.Data {
			entry.data[k] = v
		}
		entry.version++
		writeKVJSON(w, http.StatusOK, map[string]any{"data": versionMetadata(entry.version)})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, srv *httptest.Server) *Store {
	t.Helper()
	store, err := New(Config{Address: srv.URL, Token: testToken, MaxRetries: 0})
	require.NoError(t, err)
	return store
}

func TestStore_Contract(t *testing.T) {
	secretstoretest.Run(t, secretstoretest.Policy{
		CreateRejectsExisting: true,
		UpdateRejectsMissing:  true,
	}, func(t *testing.T) driven.SecretStore {
		_, srv := newFakeKV(t)
		return newTestStore(t, srv)
	})
}

func TestStore_WritesUnderPrefix(t *testing.T) {
	kv, srv := newFakeKV(t)
	store, err := New(Config{Address: srv.URL, Token: testToken, Mount: "secret", Prefix: "pam/accounts", MaxRetries: 0})
	require.NoError(t, err)

	err = store.CreateSecret(context.Background(), "a1", model.NewSecretPayload(store.Key(), "p@ssw0rd"))
	require.NoError(t, err)

	kv.mu.Lock()
	defer kv.mu.Unlock()
	require.Contains(t, kv.entries, "pam/accounts/a1")
	assert.Equal(t, "p@ssw0rd", kv.entries["pam/accounts/a1"].data["value"])
}

func TestStore_UnavailableBackend(t *testing.T) {
	kv, srv := newFakeKV(t)
	store := newTestStore(t, srv)
	ctx := context.Background()

	kv.mu.Lock()
	kv.unavailable = true
	kv.mu.Unlock()

	err := store.CreateSecret(ctx, "a1", model.NewSecretPayload(store.Key(), "x"))
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)

	_, err = store.GetSecret(ctx, "a1")
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)

	err = store.DeleteSecret(ctx, "a1")
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)
}

func TestStore_PermissionDeniedIsUnavailable(t *testing.T) {
	_, srv := newFakeKV(t)
	store, err := New(Config{Address: srv.URL, Token: "wrong-token", MaxRetries: 0})
	require.NoError(t, err)

	_, err = store.GetSecret(context.Background(), "a1")
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestNew_Misconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing address", cfg: Config{Token: testToken}},
		{name: "missing token", cfg: Config{Address: "http://127.0.0.1:8200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(tt.cfg)
			require.ErrorIs(t, err, driven.ErrStoreMisconfigured)
			assert.Nil(t, store)
		})
	}
}
