package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shalles/web-mind/infrastructure/config"
	"github.com/shalles/web-mind/infrastructure/di"
	"github.com/shalles/web-mind/interfaces/http/rest"
	"github.com/shalles/web-mind/pkg/auth"
)

// envelope mirrors the response envelope for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Pagination *struct {
			Page  int `json:"page"`
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		ServerAddress:    ":0",
		Environment:      "test",
		LogLevel:         "debug",
		RateLimitPerIP:   1000,
		RateLimitPerUser: 1000,
		CacheTTLSeconds:  60,
	}

	container, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	router := rest.NewRouter(
		cfg,
		container.CommandBus,
		container.QueryBus,
		container.Snapshots,
		container.Metrics,
		container.Logger,
	)

	handler, err := router.Setup()
	require.NoError(t, err)
	return handler
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "tester")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func createMap(t *testing.T, handler http.Handler, name string) (mapID, rootID string) {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/maps", map[string]string{
		"name":         name,
		"root_content": "Central Topic",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var summary struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/maps/"+summary.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var full struct {
		RootID string `json:"root_id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &full))

	return summary.ID, full.RootID
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = doRequest(t, handler, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMapLifecycle(t *testing.T) {
	handler := newTestServer(t)

	mapID, _ := createMap(t, handler, "Trip Planning")

	t.Run("list includes the new map", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/maps", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Meta)
		require.NotNil(t, env.Meta.Pagination)
		assert.Equal(t, 1, env.Meta.Pagination.Total)
	})

	t.Run("get unknown map is 404", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/v1/maps/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodDelete, "/api/v1/maps/"+mapID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/api/v1/maps/"+mapID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMapValidation(t *testing.T) {
	handler := newTestServer(t)

	t.Run("missing name is rejected", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/maps", map[string]string{
			"root_content": "Center",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown body fields are rejected", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/maps", map[string]string{
			"name": "ok",
			"nmae": "typo",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "INVALID_BODY", env.Error.Code)
	})
}

func TestNodeEditingFlow(t *testing.T) {
	handler := newTestServer(t)
	mapID, rootID := createMap(t, handler, "Editing")
	base := "/api/v1/maps/" + mapID

	rec := doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID,
		"text":      "first idea",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var node struct {
		ID       string `json:"id"`
		ParentID string `json:"parent_id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &node))
	assert.Equal(t, rootID, node.ParentID)

	t.Run("patch content", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPatch, base+"/nodes/"+node.ID+"/content", map[string]string{
			"text": "refined idea",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, base+"/nodes/"+node.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		assert.Equal(t, "refined idea", got.Content.Text)
	})

	t.Run("toggle expansion", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, base+"/nodes/"+node.ID+"/toggle", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Expanded bool `json:"expanded"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		assert.False(t, got.Expanded)
	})

	t.Run("delete reports the cascade", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
			"parent_id": node.ID,
			"text":      "leaf",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, handler, http.MethodDelete, base+"/nodes/"+node.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			RemovedNodeIDs []string `json:"removed_node_ids"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		assert.Len(t, got.RemovedNodeIDs, 2)
	})

	t.Run("deleting the root is rejected", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodDelete, base+"/nodes/"+rootID, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHistoryEndpoints(t *testing.T) {
	handler := newTestServer(t)
	mapID, rootID := createMap(t, handler, "History")
	base := "/api/v1/maps/" + mapID

	var status struct {
		CanUndo   bool `json:"can_undo"`
		CanRedo   bool `json:"can_redo"`
		UndoDepth int  `json:"undo_depth"`
	}

	rec := doRequest(t, handler, http.MethodGet, base+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.False(t, status.CanUndo)

	rec = doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID,
		"text":      "undo me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, base+"/history/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.False(t, status.CanUndo)
	assert.True(t, status.CanRedo)

	rec = doRequest(t, handler, http.MethodPost, base+"/history/redo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.True(t, status.CanUndo)
	assert.False(t, status.CanRedo)

	t.Run("undo with empty history fails", func(t *testing.T) {
		otherID, _ := createMap(t, handler, "Fresh")
		rec := doRequest(t, handler, http.MethodPost, "/api/v1/maps/"+otherID+"/history/undo", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestDragEndpoints(t *testing.T) {
	handler := newTestServer(t)
	mapID, rootID := createMap(t, handler, "Drag")
	base := "/api/v1/maps/" + mapID

	rec := doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID,
		"text":      "movable",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var node struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &node))

	rec = doRequest(t, handler, http.MethodPost, base+"/drag/begin", map[string]string{
		"node_id": node.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, base+"/drag", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var drag struct {
		State  string `json:"state"`
		NodeID string `json:"node_id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &drag))
	assert.Equal(t, "dragging", drag.State)
	assert.Equal(t, node.ID, drag.NodeID)

	rec = doRequest(t, handler, http.MethodPost, base+"/drag/move", map[string]float64{
		"x": 900, "y": 900,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var move struct {
		SnapTarget *struct {
			NodeID string `json:"node_id"`
		} `json:"snap_target"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &move))
	assert.Nil(t, move.SnapTarget, "free space captures no target")

	rec = doRequest(t, handler, http.MethodPost, base+"/drag/end", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var end struct {
		Kind     string `json:"kind"`
		Position struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"position"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &end))
	assert.Equal(t, "position_committed", end.Kind)
	assert.Equal(t, 900.0, end.Position.X)

	t.Run("move without an active drag fails", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, base+"/drag/move", map[string]float64{
			"x": 1, "y": 1,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	handler := newTestServer(t)
	mapID, rootID := createMap(t, handler, "Snapshots")
	base := "/api/v1/maps/" + mapID

	rec := doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID,
		"text":      "persisted",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, base+"/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var document struct {
		SchemaVersion int             `json:"_schema_version"`
		Data          json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &document))
	assert.Equal(t, 2, document.SchemaVersion)
	exported := rec.Body.Bytes()

	// Another edit, then restore the exported document.
	rec = doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID,
		"text":      "transient",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPut, base+"/snapshot", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "tester")
	restore := httptest.NewRecorder()
	handler.ServeHTTP(restore, req)
	require.Equal(t, http.StatusOK, restore.Code)

	var imported struct {
		ImportedNodes int `json:"imported_nodes"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, restore).Data, &imported))
	assert.Equal(t, 2, imported.ImportedNodes)

	rec = doRequest(t, handler, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var full struct {
		NodeCount int `json:"node_count"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &full))
	assert.Equal(t, 2, full.NodeCount)
}

func TestAuthenticatedMode(t *testing.T) {
	cfg := &config.Config{
		ServerAddress:    ":0",
		Environment:      "test",
		EnableAuth:       true,
		JWTSecret:        "test-secret",
		JWTIssuer:        "web-mind-api",
		RateLimitPerIP:   1000,
		RateLimitPerUser: 1000,
		CacheTTLSeconds:  60,
	}

	container, err := di.InitializeContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	router := rest.NewRouter(cfg, container.CommandBus, container.QueryBus, container.Snapshots, container.Metrics, container.Logger)
	handler, err := router.Setup()
	require.NoError(t, err)

	t.Run("missing token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
			SigningMethod: "HS256",
			SecretKey:     "test-secret",
			Issuer:        "web-mind-api",
			Audience:      []string{"web-mind-api"},
			ExpiryTime:    time.Hour,
		})
		require.NoError(t, err)

		token, err := generator.GenerateToken("user-1", "user@example.com", []string{"authenticated"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/maps", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRelationshipEndpoints(t *testing.T) {
	handler := newTestServer(t)
	mapID, rootID := createMap(t, handler, "Relations")
	base := "/api/v1/maps/" + mapID

	var a, b struct {
		ID string `json:"id"`
	}

	rec := doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID, "text": "a",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &a))

	rec = doRequest(t, handler, http.MethodPost, base+"/nodes", map[string]string{
		"parent_id": rootID, "text": "b",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &b))

	rec = doRequest(t, handler, http.MethodPost, base+"/relationships", map[string]string{
		"source_id": a.ID,
		"target_id": b.ID,
		"label":     "depends on",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rel struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rel))
	assert.Equal(t, "depends on", rel.Label)

	t.Run("self relationships are rejected", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, base+"/relationships", map[string]string{
			"source_id": a.ID,
			"target_id": a.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("disconnect removes the relationship", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodDelete, base+"/relationships/"+rel.ID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, handler, http.MethodDelete, base+"/relationships/"+rel.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
