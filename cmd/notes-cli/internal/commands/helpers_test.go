//go:build unit || integration
// +build unit integration

package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd, err := NewRootCommand()
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), err
}
