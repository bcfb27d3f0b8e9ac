package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func throttleRequest(remoteAddr string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = remoteAddr
	return r
}

func TestLimitLoginBlocksSixthAttempt(t *testing.T) {
	th := NewThrottler()

	for i := 0; i < loginLimit; i++ {
		w := httptest.NewRecorder()
		require.False(t, th.LimitLogin(w, throttleRequest("10.0.0.1:1111"), "alice"), "attempt %d should pass", i+1)
	}

	w := httptest.NewRecorder()
	assert.True(t, th.LimitLogin(w, throttleRequest("10.0.0.1:1111"), "alice"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLimitLoginKeysByAddressAndIdentifier(t *testing.T) {
	th := NewThrottler()

	for i := 0; i < loginLimit; i++ {
		require.False(t, th.LimitLogin(httptest.NewRecorder(), throttleRequest("10.0.0.1:1111"), "alice"))
	}

	// Same address, different claimed identifier: separate budget.
	assert.False(t, th.LimitLogin(httptest.NewRecorder(), throttleRequest("10.0.0.1:2222"), "bob"))

	// Different address, same identifier: separate budget too.
	assert.False(t, th.LimitLogin(httptest.NewRecorder(), throttleRequest("10.0.0.2:1111"), "alice"))
}

func TestLimitRegisterBlocksFourthAttempt(t *testing.T) {
	th := NewThrottler()

	for i := 0; i < registerLimit; i++ {
		require.False(t, th.LimitRegister(httptest.NewRecorder(), throttleRequest("10.0.0.1:1111"), "a@x.com"))
	}

	w := httptest.NewRecorder()
	assert.True(t, th.LimitRegister(w, throttleRequest("10.0.0.1:1111"), "a@x.com"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRegisterAndLoginBudgetsAreIndependent(t *testing.T) {
	th := NewThrottler()

	for i := 0; i < registerLimit; i++ {
		require.False(t, th.LimitRegister(httptest.NewRecorder(), throttleRequest("10.0.0.1:1111"), "alice"))
	}
	require.True(t, th.LimitRegister(httptest.NewRecorder(), throttleRequest("10.0.0.1:1111"), "alice"))

	// Register exhaustion does not consume the login budget.
	assert.False(t, th.LimitLogin(httptest.NewRecorder(), throttleRequest("10.0.0.1:1111"), "alice"))
}
