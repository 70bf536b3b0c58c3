package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Anwar-Qureshi/SkillBridge/internal/config"
	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillbridge",
	Short: "Behavioral interview practice coach",
	Long: "SkillBridge asks behavioral interview questions, scores answers on clarity, " +
		"STAR structure and relevance, and coaches you on the weakest part.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLBRIDGE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: skillbridge.yaml in . or ./config)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to dotenv file loaded before the config")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	return config.Load(config.Options{ConfigFile: file, EnvFile: envFile})
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from the config, then SKILLBRIDGE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
