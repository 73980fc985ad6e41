package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"files": 2}))
	assert.Equal(t, "{\n  \"files\": 2\n}\n", buf.String())
}

func TestShouldOutputJSON(t *testing.T) {
	assert.False(t, ShouldOutputJSON(nil))

	cmd := &cobra.Command{Use: "x"}
	assert.False(t, ShouldOutputJSON(cmd), "no flag registered")

	cmd.Flags().Bool("json", false, "")
	assert.False(t, ShouldOutputJSON(cmd))

	require.NoError(t, cmd.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(cmd))
}
