package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchCmd_Use(t *testing.T) {
	assert.Equal(t, "dispatch", dispatchCmd.Use)
}

func TestDispatchCmd_Flags(t *testing.T) {
	for _, name := range []string{
		"event-path", "upload", "email", "out-dir", "strict-validation", "no-ledger",
	} {
		assert.NotNil(t, dispatchCmd.Flags().Lookup(name), name)
	}
}

func TestDispatchCmd_MissingEventPath(t *testing.T) {
	originalEventPath := dispatchFlags.eventPath
	dispatchFlags.eventPath = ""
	defer func() { dispatchFlags.eventPath = originalEventPath }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"dispatch", "--config", filepath.Join(t.TempDir(), "none.toml")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "event-path")
}

func TestDispatchCmd_ProcessesEventLocally(t *testing.T) {
	dir := t.TempDir()
	eventPath := filepath.Join(dir, "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(`{
		"event_type": "complaint-submission",
		"client_payload": {
			"submission_id": "sub-cli-1",
			"timestamp": "2024-01-05T10:00:00Z",
			"fields": {
				"First Name": "Ada",
				"Last Name": "Lovelace",
				"Complaint Description": "Cracked housing."
			}
		}
	}`), 0644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"dispatch",
		"--config", filepath.Join(dir, "none.toml"),
		"--event-path", eventPath,
		"--out-dir", dir,
		"--no-ledger",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Submission sub-cli-1 processed.")

	_, err = os.Stat(filepath.Join(dir, "submissions", "complaint_sub-cli-1.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "submissions", "complaint_sub-cli-1.json"))
	assert.NoError(t, err)
}

func TestDispatchCmd_InvalidEventFile(t *testing.T) {
	dir := t.TempDir()
	eventPath := filepath.Join(dir, "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(`{"client_payload": {}}`), 0644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"dispatch",
		"--config", filepath.Join(dir, "none.toml"),
		"--event-path", eventPath,
		"--no-ledger",
	})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields")
}
