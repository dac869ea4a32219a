package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))

	_, err = New("loud")
	assert.Error(t, err)
}
