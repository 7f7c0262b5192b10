package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCLI_PutGetResolve(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "-data", dir, "put", testUUID, "+15550100")
	require.NoError(t, err)
	assert.Contains(t, out, "ok "+testUUID)

	out, err = runCLI(t, "-data", dir, "get", testUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "+15550100")

	out, err = runCLI(t, "-data", dir, "resolve", "+15550100")
	require.NoError(t, err)
	assert.Contains(t, out, "<Address alias: +15550100, uuid: "+testUUID+">")
	assert.Contains(t, out, "complete: true")

	out, err = runCLI(t, "-data", dir, "count")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	_, err = runCLI(t, "-data", dir, "del", testUUID)
	require.NoError(t, err)

	out, err = runCLI(t, "-data", dir, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, testUUID)
}

func TestCLI_ResolveUnknownAlias(t *testing.T) {
	out, err := runCLI(t, "-mem", "resolve", "+15550199")
	require.NoError(t, err)
	assert.Contains(t, out, "uuid: nil")
	assert.Contains(t, out, "complete: false")
}

func TestCLI_Metrics(t *testing.T) {
	out, err := runCLI(t, "-mem", "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "svcaddr_cache_durable_ids")
}

func TestCLI_UsageErrors(t *testing.T) {
	_, err := runCLI(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "-mem", "frobnicate")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "-mem", "get")
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "-mem", "get", "not-a-uuid")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.Contains(t, out, "svcaddr v")
}
