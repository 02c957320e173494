package ci

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteMetadata_DeclaresInputsAndOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetadata(&buf))

	var doc ActionMetadata
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	require.Contains(t, doc.Inputs, "commodity")
	require.Contains(t, doc.Inputs, "currency")
	assert.True(t, doc.Inputs["commodity"].Required)
	assert.Equal(t, "gold", doc.Inputs["commodity"].Default)
	assert.Contains(t, doc.Inputs["commodity"].Description, "gold, silver")
	assert.Equal(t, "USD", doc.Inputs["currency"].Default)
	assert.Contains(t, doc.Inputs["currency"].Description, "USD, EUR")

	assert.Contains(t, doc.Outputs, OutputPrice)
	assert.Equal(t, "docker", doc.Runs.Using)
	assert.Equal(t, []string{"lookup"}, doc.Runs.Args)
}

func TestWriteMetadata_UsesTwoSpaceIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetadata(&buf))

	assert.Contains(t, buf.String(), "\ninputs:\n  commodity:\n")
}
