package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupAppliesLevel(t *testing.T) {
	require.NoError(t, Setup("debug", "json"))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, Setup("warn", "console"))
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Setup("verbose", "json"))
}

func TestSetupRejectsUnknownFormat(t *testing.T) {
	require.Error(t, Setup("info", "xml"))
}
