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
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/booktran/internal/config"
	"github.com/valpere/booktran/internal/store"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the terminology glossary",
	Long: `Add, list, and delete terminology glossary entries.

Glossary entries ensure that character names, places and invented words are
always translated the same way. Terms for the target language are added to
the instructions sent with every chunk.`,
}

var glossaryListLang string

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		code := ""
		if glossaryListLang != "" {
			lang, err := resolveLanguage(glossaryListLang)
			if err != nil {
				return err
			}
			code = lang.Code()
		}
		return withStore(func(db *store.Store) error {
			return listGlossary(cmd.Context(), db, cmd.OutOrStdout(), code)
		})
	},
}

var glossaryAddLang string

var glossaryAddCmd = &cobra.Command{
	Use:   "add <source-term> <target-term>",
	Short: "Add or update a glossary entry",
	Long: `Add a glossary entry mapping a term of the book to its translation.

Example:
  booktran glossary add "Winterfell" "Винтерфелл" --language Russian`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := resolveLanguage(glossaryAddLang)
		if err != nil {
			return err
		}

		return withStore(func(db *store.Store) error {
			if err := db.AddGlossaryTerm(cmd.Context(), lang.Code(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to add glossary entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added: [%s] %q → %q\n", lang.Code(), args[0], args[1])
			return nil
		})
	},
}

var glossaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a glossary entry by ID",
	Long:  `Delete a glossary entry by its ID (shown in "booktran glossary list").`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.DeleteGlossaryTerm(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete glossary entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted glossary entry: %s\n", args[0])
			return nil
		})
	},
}

func resolveLanguage(s string) (config.Language, error) {
	if s == "" {
		return config.Language{}, &config.FieldError{Field: "language", Reason: "a target language is required"}
	}
	lang, ok := config.LookupLanguage(s)
	if !ok {
		return config.Language{}, &config.FieldError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", s)}
	}
	return lang, nil
}

func listGlossary(ctx context.Context, db *store.Store, out io.Writer, langCode string) error {
	entries, err := db.ListGlossaryTerms(ctx, langCode)
	if err != nil {
		return fmt.Errorf("failed to list glossary: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "Glossary is empty.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLANG\tSOURCE TERM\tTARGET TERM")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.TargetLang, e.SourceTerm, e.TargetTerm)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(glossaryCmd)

	glossaryListCmd.Flags().StringVarP(&glossaryListLang, "language", "l", "", "Filter by target language (name or ISO code)")
	glossaryAddCmd.Flags().StringVarP(&glossaryAddLang, "language", "l", "", "Target language (name or ISO code)")
	glossaryAddCmd.MarkFlagRequired("language")

	glossaryCmd.AddCommand(glossaryListCmd)
	glossaryCmd.AddCommand(glossaryAddCmd)
	glossaryCmd.AddCommand(glossaryDeleteCmd)
}
