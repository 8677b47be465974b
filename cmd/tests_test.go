package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTests_ListsExamplesWithFullNames(t *testing.T) {
	inTempDir(t)
	writeSpec(t, "spec/login_spec.rb", loginSpec)

	var buf bytes.Buffer
	require.NoError(t, RunTests(&buf, "spec/login_spec.rb"))
	out := buf.String()

	assert.Contains(t, out, "  spec/login_spec.rb:6  Login with valid credentials signs the user in\n")
	assert.Contains(t, out, "  spec/login_spec.rb:10  Login remembers the user\n")
	assert.NotContains(t, out, "before")
}

func TestTests_NoExamples(t *testing.T) {
	inTempDir(t)
	writeSpec(t, "spec/empty_spec.rb", `describe "Nothing" do
end`)

	var buf bytes.Buffer
	require.NoError(t, RunTests(&buf, "spec/empty_spec.rb"))
	assert.Contains(t, buf.String(), "no examples in spec/empty_spec.rb")
}

func TestTests_MissingFile(t *testing.T) {
	inTempDir(t)

	err := RunTests(&bytes.Buffer{}, "spec/missing_spec.rb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading spec/missing_spec.rb")
}
