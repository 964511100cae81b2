package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticators(t *testing.T) {
	tests := []struct {
		name   string
		auth   Authenticator
		header string
		want   string
	}{
		{name: "bearer", auth: Bearer(), header: "Authorization", want: "Bearer k-1"},
		{name: "default header", auth: Header(""), header: DefaultAPIKeyHeader, want: "k-1"},
		{name: "custom header", auth: Header("X-Henkan-Key"), header: "X-Henkan-Key", want: "k-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://henkan.test/health", nil)
			assert.NoError(t, err)

			tt.auth.Apply(req, "k-1")
			assert.Equal(t, tt.want, req.Header.Get(tt.header))
			assert.Len(t, req.Header, 1)
		})
	}
}

func TestNoneAddsNothing(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://henkan.test/health", nil)
	assert.NoError(t, err)

	None().Apply(req, "k-1")
	assert.Empty(t, req.Header)
	assert.Empty(t, req.URL.RawQuery)
}
