package endpoints

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsPage(t *testing.T) {
	s := newTestServer(NewMockTokensStore(), NewMockProvidersStore())
	RegisterDocsEndpoints(s)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<h1")
}
