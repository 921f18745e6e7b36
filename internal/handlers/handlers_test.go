package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trigger-engine/internal/conditions"
	"trigger-engine/internal/expression"
	"trigger-engine/internal/triggers"
)

func newTestAPI(t *testing.T) (*Handlers, *triggers.Evaluator) {
	t.Helper()
	evaluator := triggers.NewEvaluator()
	h := New(evaluator, nil, triggers.NewLifecycle(3), conditions.WithEvaluator(expression.NewEvaluator()))
	return h, evaluator
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleDefinition(name string) map[string]interface{} {
	return map[string]interface{}{
		"name": name,
		"condition": map[string]interface{}{
			"event": "user.*",
		},
	}
}

func TestCreateAndListTriggers(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "signup_watch", created.Name)
	assert.True(t, created.Active)
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, router, "GET", "/triggers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateDuplicateReturnsConflict(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateRejectsInvalidDefinition(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	tests := []struct {
		name string
		body interface{}
	}{
		{"reserved name", sampleDefinition("system")},
		{"missing condition", map[string]interface{}{"name": "ok_watch"}},
		{"bad timer", map[string]interface{}{
			"name":      "ok_watch",
			"condition": map[string]interface{}{"timer": "0s"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/triggers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetAndDeleteTrigger(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, router, "GET", "/triggers/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/triggers/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, "GET", "/triggers/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// deleting again stays a no-op
	rec = doJSON(t, router, "DELETE", "/triggers/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListActiveFiltersDisabled(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	body := sampleDefinition("paused_watch")
	body["enabled"] = false
	rec := doJSON(t, router, "POST", "/triggers", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/triggers", sampleDefinition("live_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/triggers/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var active []TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
	require.Len(t, active, 1)
	assert.Equal(t, "live_watch", active[0].Name)
}

func TestSubmitEvent(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/events", map[string]interface{}{
		"type":    "user.created",
		"payload": map[string]interface{}{"plan": "pro"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Fired, 1)
	assert.Equal(t, "signup_watch", resp.Fired[0].Name)

	rec = doJSON(t, router, "POST", "/events", map[string]interface{}{
		"type": "order.created",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = EventResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Fired)
}

func TestSubmitEventValidation(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/events", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitEventWithExpressionCondition(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	body := map[string]interface{}{
		"name": "big_order_watch",
		"condition": map[string]interface{}{
			"and": []interface{}{
				map[string]interface{}{"event": "order.*"},
				map[string]interface{}{"expression": "amount > 100"},
			},
		},
	}
	rec := doJSON(t, router, "POST", "/triggers", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/events", map[string]interface{}{
		"type":    "order.created",
		"payload": map[string]interface{}{"amount": 250},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Fired, 1)

	rec = doJSON(t, router, "POST", "/events", map[string]interface{}{
		"type":    "order.created",
		"payload": map[string]interface{}{"amount": 10},
	})
	resp = EventResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Fired)
}

func TestTriggerStateTrackedAcrossFirings(t *testing.T) {
	h, _ := newTestAPI(t)
	router := h.Router()

	rec := doJSON(t, router, "POST", "/triggers", sampleDefinition("signup_watch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "active", created.State)

	rec = doJSON(t, router, "POST", "/events", map[string]interface{}{
		"type": "user.created",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/triggers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched TriggerView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, "success", fetched.State)
	assert.Zero(t, fetched.Failures)

	// resuming a trigger that is not suspended is rejected
	rec = doJSON(t, router, "POST", "/triggers/"+created.ID+"/resume", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResumeUnknownTrigger(t *testing.T) {
	h, _ := newTestAPI(t)
	rec := doJSON(t, h.Router(), "POST", "/triggers/no-such-id/resume", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestAPI(t)
	rec := doJSON(t, h.Router(), "GET", "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
