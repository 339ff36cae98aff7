package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParser(t *testing.T) {
	parser, err := GetParser("ptr")
	require.NoError(t, err)
	assert.NotNil(t, parser)

	_, err = GetParser("edgar")
	assert.Error(t, err)
}
