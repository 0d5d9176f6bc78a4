package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/flowgen/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutYAML = `name: Checkout
steps:
  - id: cart
    title: Cart
  - id: payment
    title: Payment
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	base := []string{"flowgen", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "--cache", "none"}
	err := app.Run(context.Background(), append(base, args...))

	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	out, err := run(t, "validate", writeFile(t, dir, "checkout.yaml", checkoutYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout is valid (2 steps)")

	broken := writeFile(t, dir, "broken.json", `{"name":"Checkout","steps":[{"id":"a","title":"A","nextSteps":[{"stepId":"ghost"}]},{"id":"b","title":"B"}]}`)

	out, err = run(t, "validate", broken)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	assert.Contains(t, out, "ghost")

	_, err = run(t, "validate")
	require.ErrorIs(t, err, errMissingFile)
}

func TestGenerateCommand_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "generate", "--out", outDir, "--verify", writeFile(t, dir, "checkout.yaml", checkoutYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Generated")

	assert.FileExists(t, filepath.Join(outDir, "Checkout", "Checkout.tsx"))
	assert.FileExists(t, filepath.Join(outDir, "Checkout", "index.ts"))
}

func TestGenerateCommand_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "generate", "--out", outDir, "--dry-run", writeFile(t, dir, "checkout.yaml", checkoutYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "Checkout/Checkout.tsx")
	assert.NoDirExists(t, outDir)
}

func TestGenerateCommand_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{
			name:    "unsupported framework",
			content: "framework: vue\n" + checkoutYAML,
			check:   services.IsUnsupportedTarget,
		},
		{
			name:    "invalid shape",
			content: "name: Checkout\nsteps: []\n",
			check:   services.IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, "generate", "--dry-run", writeFile(t, dir, tt.name+".yaml", tt.content))
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestGenerateCommand_ConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := writeFile(t, dir, "flowgen.yaml", "defaults:\n  typescript: false\n")

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{
		"flowgen", "--config", cfg, "--cache", "none",
		"generate", "--dry-run", writeFile(t, dir, "checkout.yaml", checkoutYAML),
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Checkout/Checkout.jsx")
	assert.NotContains(t, out.String(), ".tsx")
}

func TestFrameworksCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "frameworks")
	require.NoError(t, err)

	assert.Regexp(t, `react\s+supported`, out)
	assert.Regexp(t, `vue\s+not implemented`, out)
}
