package storeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamlay/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 2*time.Second, zap.NewNop().Sugar()).(*Client)
	return srv, c
}

func TestList_EncodesStreamRef(t *testing.T) {
	var gotRef string
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/overlays", r.URL.Path)
		gotRef = r.URL.Query().Get("streamRef")
		json.NewEncoder(w).Encode([]domain.Overlay{
			{ID: "ov_1", Kind: domain.KindText, Content: "LIVE"},
		})
	})

	overlays, err := client.List(context.Background(), "rtsp://cam/live?token=1")
	require.NoError(t, err)
	assert.Equal(t, "rtsp://cam/live?token=1", gotRef)
	require.Len(t, overlays, 1)
	assert.Equal(t, domain.OverlayID("ov_1"), overlays[0].ID)
}

func TestCreate_RoundTripsDraft(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/overlays", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft domain.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, domain.KindText, draft.Kind)
		assert.Equal(t, "LIVE", draft.Content)

		created := domain.Overlay{
			ID:        "ov_srv_1",
			StreamRef: draft.StreamRef,
			Kind:      draft.Kind,
			Content:   draft.Content,
			Position:  draft.Position,
			Size:      draft.Size,
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	})

	created, err := client.Create(context.Background(), domain.Draft{
		StreamRef: "s1",
		Kind:      domain.KindText,
		Content:   "LIVE",
		Position:  domain.Position{X: 50, Y: 50},
		Size:      100,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OverlayID("ov_srv_1"), created.ID)
}

func TestCreate_ValidationRejected(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "content is required"})
	})

	_, err := client.Create(context.Background(), domain.Draft{StreamRef: "s1", Kind: domain.KindText})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	assert.Contains(t, err.Error(), "content is required")
}

func TestUpdate_NotFound(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/overlays/ov_gone", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Update(context.Background(), "ov_gone", domain.Overlay{ID: "ov_gone"})
	assert.ErrorIs(t, err, domain.ErrOverlayNotFound)
}

func TestUpdate_EchoesCanonicalRecord(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body domain.Overlay
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// server-side clamp
		body.Position = body.Position.Clamped()
		json.NewEncoder(w).Encode(body)
	})

	updated, err := client.Update(context.Background(), "ov_1", domain.Overlay{
		ID:       "ov_1",
		Kind:     domain.KindLogo,
		Position: domain.Position{X: 140, Y: -3},
		Size:     50,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 100, Y: 0}, updated.Position)
}

func TestDelete_NotFoundIsSuccess(t *testing.T) {
	calls := 0
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		if calls == 1 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, client.Delete(context.Background(), "ov_1"))
	assert.NoError(t, client.Delete(context.Background(), "ov_1"))
	assert.Equal(t, 2, calls)
}

func TestTransportFailureMapsToStoreUnavailable(t *testing.T) {
	srv, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.List(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestServerErrorMapsToStoreUnavailable(t *testing.T) {
	_, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.List(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
