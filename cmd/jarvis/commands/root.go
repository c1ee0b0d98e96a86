package commands

import (
	"os"
	"path/filepath"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Voice assistant for the terminal",
	Long: `jarvis listens for its name, sends what you said to a reasoner, speaks
the answer and opens the page the answer asks for.

Configuration is read from ~/.jarvis/config.yaml, JARVIS_* environment
variables and flags. API keys can also be given as DEEPGRAM_API_KEY,
GROQ_API_KEY and GEMINI_API_KEY. The account session is the backend's
"token" cookie, set as server.session_token or JARVIS_SESSION_TOKEN.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssistant(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(logoutCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := []config.LoadOption{config.WithFlags(cmd.Flags())}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithFile(path))
	} else if home, err := os.UserHomeDir(); err == nil {
		opts = append(opts, config.WithSearchDir(filepath.Join(home, ".jarvis")))
	}
	return config.Load(afero.NewOsFs(), opts...)
}
