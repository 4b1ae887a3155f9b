package mcp

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil mapping service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingMappingService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Mapping: &mockMappingService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("catalog enables schema tools and resources", func(t *testing.T) {
		ports := &Ports{
			Mapping: &mockMappingService{},
			Catalog: &mockCatalogService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil mapping service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingMappingService)
	})

	t.Run("mapping only is valid", func(t *testing.T) {
		ports := &Ports{
			Mapping: &mockMappingService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Mapping:  &mockMappingService{},
			Catalog:  &mockCatalogService{},
			Settings: &mockSettingsService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestPorts_Version(t *testing.T) {
	assert.Equal(t, "dev", (&Ports{}).version())
	assert.Equal(t, "1.2.0", (&Ports{Version: "1.2.0"}).version())
}

func TestServer_serveHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Mapping: &mockMappingService{}, Version: "1.2.0"})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, server.serveHTTP(ctx, ln))
}

func TestServer_RunHTTP_BadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Mapping: &mockMappingService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on not-an-address")
}
