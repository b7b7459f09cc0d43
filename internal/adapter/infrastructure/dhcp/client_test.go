//go:build unit

package dhcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientAdapter(t *testing.T) {
	adapter := NewClientAdapter("quizlink")
	assert.NotNil(t, adapter)
	assert.Len(t, adapter.modifiers(), 1)

	assert.Empty(t, NewClientAdapter("").modifiers())
}

func TestClientAdapter_RequestLease_MissingInterface(t *testing.T) {
	adapter := NewClientAdapter("")

	_, err := adapter.RequestLease(context.Background(), "nonexistent0", time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create DHCP client")
}
