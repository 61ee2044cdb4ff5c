package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"abacus/internal/platform/config"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{ServiceName: "abacus"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
