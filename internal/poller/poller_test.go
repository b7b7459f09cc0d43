//go:build unit

package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-quizlink/internal/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPoller_Poll(t *testing.T) {
	t.Run("ActiveQuestion", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var gotRequestID, gotAccept, gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			gotRequestID = r.Header.Get("X-Request-ID")
			gotAccept = r.Header.Get("Accept")
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"active":true,"question_id":"q-17","type":"multiple","answers":["B","d"]}`))
		}))
		defer server.Close()

		conn := mock.NewMockConnectionManager(ctrl)
		conn.EXPECT().EnsureConnected(gomock.Any()).Return(true)

		p := New(Config{URL: server.URL, Timeout: time.Second, UserAgent: "golang-quizlink/test"}, conn, server.Client(), nil)
		resp, err := p.Poll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &Response{Active: true, QuestionID: "q-17", Type: TypeMultiple, Answers: []string{"B", "d"}}, resp)
		assert.Equal(t, "application/json", gotAccept)
		assert.Equal(t, "golang-quizlink/test", gotUserAgent)
		_, err = uuid.Parse(gotRequestID)
		assert.NoError(t, err)
	})

	t.Run("NoRequestWhenDisconnected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		conn := mock.NewMockConnectionManager(ctrl)
		conn.EXPECT().EnsureConnected(gomock.Any()).Return(false)

		p := New(Config{URL: server.URL}, conn, server.Client(), nil)
		resp, err := p.Poll(context.Background())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrConnectionUnavailable)
		assert.Zero(t, requests)
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		conn := mock.NewMockConnectionManager(ctrl)
		conn.EXPECT().EnsureConnected(gomock.Any()).Return(true)

		p := New(Config{URL: server.URL}, conn, server.Client(), nil)
		_, err := p.Poll(context.Background())

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Contains(t, string(statusErr.Body), "maintenance")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"active":`))
		}))
		defer server.Close()

		conn := mock.NewMockConnectionManager(ctrl)
		conn.EXPECT().EnsureConnected(gomock.Any()).Return(true)

		p := New(Config{URL: server.URL}, conn, server.Client(), nil)
		_, err := p.Poll(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})

	t.Run("Timeout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		conn := mock.NewMockConnectionManager(ctrl)
		conn.EXPECT().EnsureConnected(gomock.Any()).Return(true)

		p := New(Config{URL: server.URL, Timeout: 50 * time.Millisecond}, conn, server.Client(), nil)
		_, err := p.Poll(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
