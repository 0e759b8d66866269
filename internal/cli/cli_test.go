package cli

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopadmin/internal/mockapi"
)

// startEnv points the CLI at a fresh mock API and an isolated credentials
// file for the duration of the test.
func startEnv(t *testing.T) {
	t.Helper()
	server := httptest.NewServer(mockapi.NewServer("test-secret").Router())
	t.Cleanup(server.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("SHOPADMIN_API_URL", server.URL)
	t.Setenv("SHOPADMIN_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials.json"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	startEnv(t)

	out, err := run(t, "login", "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin@example.com")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")

	out, err = run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestCLI_LoginRejectsInvalidEmail(t *testing.T) {
	startEnv(t)

	_, err := run(t, "login", "not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid email")
}

func TestCLI_CommandsRequireSession(t *testing.T) {
	startEnv(t)

	_, err := run(t, "products", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCLI_ProductWorkflow(t *testing.T) {
	startEnv(t)

	_, err := run(t, "login", "admin@example.com")
	require.NoError(t, err)

	out, err := run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Electronics")

	out, err = run(t, "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "walnut-desk")
	assert.Contains(t, out, "page 1/1")

	out, err = run(t, "products", "create",
		"--name", "Reading Chair",
		"--description", "A high-backed chair for long reading sessions.",
		"--price", "249.50",
		"--category", "cat-furniture",
		"--image", "/images/reading-chair.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "Created reading-chair")

	out, err = run(t, "products", "get", "reading-chair")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading Chair")
	assert.Contains(t, out, "249.50")

	out, err = run(t, "products", "search", "reading")
	require.NoError(t, err)
	assert.Contains(t, out, "reading-chair")
	assert.Contains(t, out, `1 results for "reading"`)
}

func TestCLI_CreateValidatesBeforeNetwork(t *testing.T) {
	startEnv(t)

	_, err := run(t, "login", "admin@example.com")
	require.NoError(t, err)

	_, err = run(t, "products", "create", "--name", "ab", "--price", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: Product name must be at least 3 characters")
	assert.Contains(t, err.Error(), "price: Price is required")
	assert.Contains(t, err.Error(), "images: At least one image is required")
}
