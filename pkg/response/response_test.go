package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusConflict, "items[0] is out of stock", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"items[0] is out of stock"}`, w.Body.String())
}

func TestWriteJSON_UnencodableValueIsLogged(t *testing.T) {
	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)}, nil)
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var decoded map[string]interface{}
	assert.Error(t, json.Unmarshal(w.Body.Bytes(), &decoded))
}
