package e2e

import (
	"bytes"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/fakeapi"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	fake := fakeapi.New()
	fake.AddUser(domain.User{ID: "u-1", Email: "ada@uni.edu", Name: "Ada Lovelace"}, "s3cret")
	fake.AddProjects(fakeapi.SeedProjects(3)...)
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	stdout, stderr, err := runFYP(t, binaryPath, home, server.URL, "login", "--email", "ada@uni.edu", "--password", "s3cret")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Signed in as Ada Lovelace")

	stdout, stderr, err = runFYP(t, binaryPath, home, server.URL, "projects", "get", "p-2", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Compiler testing 2")

	stdout, stderr, err = runFYP(t, binaryPath, home, server.URL, "session", "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Ada Lovelace <ada@uni.edu>")

	_, stderr, err = runFYP(t, binaryPath, home, server.URL, "logout")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, 1, fake.Calls("POST /auth/logout"))
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "fyp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/fyp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build fyp binary: %s", string(output))
	return binaryPath
}

func runFYP(t *testing.T, binaryPath, home, baseURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"FYP_API_BASE_URL="+baseURL,
		"FYP_STORAGE=file",
		"FYP_LOG_LEVEL=error",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
