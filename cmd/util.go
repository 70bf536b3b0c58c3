package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSessionID() string {
	return uuid.NewString()
}

// readText returns the flag value, or stdin when the value is "-".
func readText(cmd *cobra.Command, flag string) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "-" {
		return v, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read --%s from stdin: %w", flag, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
