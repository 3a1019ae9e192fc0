package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil manuscript service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingManuscriptService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Manuscripts: &mockManuscriptService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil manuscript service returns error", func(t *testing.T) {
		ports := &Ports{Categorizer: &mockCategorizer{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingManuscriptService)
	})

	t.Run("manuscripts only is valid", func(t *testing.T) {
		ports := &Ports{
			Manuscripts: &mockManuscriptService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Manuscripts: &mockManuscriptService{},
			Categorizer: &mockCategorizer{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Manuscripts: &mockManuscriptService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}

func TestServer_RunHTTP_BadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Manuscripts: &mockManuscriptService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = server.RunHTTP(ctx, "127.0.0.1:notaport")
	assert.ErrorContains(t, err, "mcp http server")
}

func TestInstructions_NameEveryTool(t *testing.T) {
	for _, name := range []string{"categorize_keyword", "generate_manuscript", "list_manuscripts", "quill://datasets/"} {
		assert.Contains(t, instructions, name)
	}
}
