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
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/booktran/internal/config"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List supported languages, genres and default models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOptions(cmd.OutOrStdout())
	},
}

func printOptions(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANGUAGE\tCODE\tNATIVE NAME")
	for _, l := range config.Languages {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Name, l.Code(), l.NativeName())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nGenres:")
	for _, g := range config.Genres {
		fmt.Fprintf(out, "  %s\n", g)
	}

	fmt.Fprintln(out, "\nDefault models (fallback order):")
	for i, m := range config.DefaultModels {
		fmt.Fprintf(out, "  %d. %s\n", i+1, m)
	}
	fmt.Fprintf(out, "\nUse %q as a model to fall back to Google Cloud Translation.\n", config.GoogleModel)
	return nil
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
