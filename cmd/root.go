/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/booktran/internal/config"
	"github.com/valpere/booktran/internal/logger"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = viper.New()

	appCfg *config.Config
	appLog = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "booktran",
	Short: "Book translator with model fallback",
	Long: `A CLI application that translates plain-text books chunk by chunk
through OpenRouter chat models, falling back to the next model in the list
whenever one fails.

Use "booktran translate --help" for translation options and
"booktran options" for the supported languages, genres and models.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		appCfg = cfg

		l, err := logger.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return err
		}
		appLog = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = appLog.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-dev", false, "Human-readable development logging")
	rootCmd.PersistentFlags().String("db", config.DefaultDBPath, "Database path for job history and glossary")

	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.development", rootCmd.PersistentFlags().Lookup("log-dev"))
	_ = v.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
}
