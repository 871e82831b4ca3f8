package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-autofill/internal/autofill"
)

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("write", autofill.WriteEvent{UID: "4", Field: "city", Phase: autofill.PhaseAsync}))
	sse.WriteError("tab closed")
	sse.WriteComplete(CompleteEvent{RunID: "r1", Status: "completed", Stats: autofill.Stats{Async: 1}})

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.True(t, w.Flushed)

	body := w.Body.String()
	assert.Contains(t, body, "event: write\ndata: {\"runId\":\"\",\"uid\":\"4\",\"field\":\"city\",\"kind\":\"\",\"phase\":\"async\",\"afterMs\":0}\n\n")
	assert.Contains(t, body, "event: error\ndata: {\"error\":\"tab closed\"}\n\n")
	assert.Contains(t, body, "event: complete\ndata: {\"runId\":\"r1\",\"status\":\"completed\"")
}
