package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commedeschamps/KieliSan/core/buildinfo"
	corecmd "github.com/commedeschamps/KieliSan/core/cmd"
	"github.com/commedeschamps/KieliSan/internal/app"
	"github.com/commedeschamps/KieliSan/internal/config"
	"github.com/commedeschamps/KieliSan/internal/content"
)

const (
	configEnvVar      = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"
)

var rootCmd = &cobra.Command{
	Use:          "kielisan",
	Short:        "Telegram bot about the sacred numbers of Kazakh culture",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content files and print what was loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.LoadContent(path)
		if err != nil {
			return err
		}
		cat, err := content.Load(cfg.Content.Dir)
		if err != nil {
			return err
		}
		n := cat.Counts()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content dir:       %s\n", cfg.Content.Dir)
		fmt.Fprintf(out, "questions:         %d\n", n.Questions)
		fmt.Fprintf(out, "compare questions: %d\n", n.CompareQuestions)
		fmt.Fprintf(out, "numbers:           %d\n", n.Numbers)
		fmt.Fprintf(out, "compare sections:  %d/%d\n", n.CompareSections, len(content.CompareNumbers))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "kielisan", buildinfo.String())
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config (overrides "+configEnvVar+")")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func configPath(cmd *cobra.Command) (string, error) {
	flag, _ := cmd.Flags().GetString("config")
	return corecmd.ResolveConfigPath(corecmd.Options{
		ConfigPath:        flag,
		ConfigEnvVar:      configEnvVar,
		DefaultConfigPath: defaultConfigPath,
	})
}

func runBot(cmd *cobra.Command) error {
	flag, _ := cmd.Flags().GetString("config")
	return corecmd.Run(corecmd.Options{
		ConfigPath:        flag,
		ConfigEnvVar:      configEnvVar,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.New(cfg.(*config.Config), app.Options{})
		},
	})
}
