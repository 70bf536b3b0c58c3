package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anwar-Qureshi/SkillBridge/internal/config"
	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range llm.CredentialEnvVars() {
		t.Setenv(key, "")
	}
}

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	questions := `[{"id": "q1", "text": "Tell me about a time you improved system performance.", "difficulty": "medium"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.json"), []byte(questions), 0o600))

	cfg := "data:\n" +
		"  questions: " + filepath.Join(dir, "questions.json") + "\n" +
		"  rubric: " + filepath.Join(dir, "missing-rubric.json") + "\n" +
		"  templates: " + filepath.Join(dir, "missing-templates.json") + "\n"
	path := filepath.Join(dir, "skillbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestScoreCommand(t *testing.T) {
	clearCredentials(t)
	cfgPath := writeDataset(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("I implemented a cache and latency was reduced by 40%."))
	rootCmd.SetArgs([]string{
		"score",
		"--config", cfgPath,
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
		"--question-id", "q1",
		"--answer", "-",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var eval map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &eval), out.String())
	assert.EqualValues(t, 90, eval["structure"])
	assert.Equal(t, "none", eval["structure_issue"])
	assert.Contains(t, eval, "clarification_needed")
}

func TestResolveDBPath(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String("db", "", "")
		return c
	}

	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag", "a.db")
	c := newCmd()
	require.NoError(t, c.Flags().Set("db", flagPath))
	got, err := resolveDBPath(c, &config.Config{DB: config.DBConfig{Path: "ignored.db"}})
	require.NoError(t, err)
	assert.Equal(t, flagPath, got)
	assert.DirExists(t, filepath.Dir(flagPath))

	cfgPath := filepath.Join(dir, "cfg", "b.db")
	got, err = resolveDBPath(newCmd(), &config.Config{DB: config.DBConfig{Path: cfgPath}})
	require.NoError(t, err)
	assert.Equal(t, cfgPath, got)

	envPath := filepath.Join(dir, "env", "c.db")
	t.Setenv("SKILLBRIDGE_DB", envPath)
	got, err = resolveDBPath(newCmd(), &config.Config{})
	require.NoError(t, err)
	assert.Equal(t, envPath, got)
}

func TestReadText(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().String("answer", "", "")
	c.SetIn(strings.NewReader("  from stdin \n"))

	require.NoError(t, c.Flags().Set("answer", "inline"))
	got, err := readText(c, "answer")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	require.NoError(t, c.Flags().Set("answer", "-"))
	got, err = readText(c, "answer")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
