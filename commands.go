package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/database"
	"github.com/example/vivalingo/internal/excel"
	"github.com/example/vivalingo/internal/export"
	"github.com/example/vivalingo/internal/extract"
	"github.com/example/vivalingo/internal/matcher"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import vocabulary from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			importCfg := excel.DefaultImportConfig()
			importCfg.FilePath = args[0]
			importCfg.SheetName, _ = cmd.Flags().GetString("sheet")

			items, result, err := excel.ImportVocabulary(importCfg)
			if err != nil {
				return err
			}
			repo := database.NewVocabRepository(db, time.Now)
			updated := 0
			for _, item := range items {
				_, err := repo.GetByTerm(item.Term)
				if err == nil {
					updated++
				} else if !errors.Is(err, sql.ErrNoRows) {
					return err
				}
			}
			saved, err := repo.SaveAll(items)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d row(s): %d imported, %d duplicate(s), %d saved (%d new, %d updated)\n",
				result.TotalProcessed, result.Imported, result.Duplicates, saved, saved-updated, updated)
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, "skipped:", e)
			}
			return nil
		},
	}
	cmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored vocabulary, mistakes or transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			what, _ := cmd.Flags().GetString("what")
			formatName, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			_, db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			var dataset export.Dataset
			switch what {
			case "vocab":
				items, err := database.NewVocabRepository(db, time.Now).LoadAll()
				if err != nil {
					return err
				}
				dataset = export.Vocab(items)
			case "mistakes":
				entries, err := database.NewMistakeRepository(db).List()
				if err != nil {
					return err
				}
				dataset = export.Mistakes(entries)
			case "transcripts":
				transcripts, err := database.NewTranscriptRepository(db, time.Now).List()
				if err != nil {
					return err
				}
				dataset = export.Transcripts(transcripts)
			default:
				return fmt.Errorf("unknown dataset %q, want vocab, mistakes or transcripts", what)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return export.Write(w, format, dataset)
		},
	}
	cmd.Flags().String("what", "vocab", "Dataset: vocab, mistakes or transcripts")
	cmd.Flags().String("format", "json", "Output format: json, csv or xlsx")
	cmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "List candidate phrases of a text read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			for i, c := range extract.CandidatePhrases(string(data)) {
				if limit > 0 && i == limit {
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", c.Count, c.Phrase)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum phrases to print, 0 for all")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <text>",
		Short: "Catch common mistakes and score the register of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := content.Load()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			w := cmd.OutOrStdout()

			catches := matcher.CatchMistakes(text, catalog.CommonMistakes, catalog.CoOccurrenceRules)
			if len(catches) == 0 {
				fmt.Fprintln(w, "No common mistakes found.")
			}
			for _, c := range catches {
				fmt.Fprintf(w, "%s -> %s\n  %s\n", c.Pattern, c.Correction, c.CorrectedText)
			}

			styleName, _ := cmd.Flags().GetString("style")
			audience := ""
			if style, ok := catalog.Style(styleName); ok {
				audience = style.AudienceMarkers
			}
			scores := matcher.ScoreRegister(text, audience, catalog.RegisterMarkers)
			for _, d := range matcher.Dimensions {
				fmt.Fprintf(w, "%-16s %d/5\n", d, scores[d])
			}
			return nil
		},
	}
	cmd.Flags().String("style", "", "Register style used for the audience fit score")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored vocabulary, mistakes by tag and transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			w := cmd.OutOrStdout()

			items, err := database.NewVocabRepository(db, time.Now).LoadAll()
			if err != nil {
				return err
			}
			counts, err := database.NewMistakeRepository(db).CountByTag()
			if err != nil {
				return err
			}
			transcripts, err := database.NewTranscriptRepository(db, time.Now).List()
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "Vocabulary:  %d term(s)\n", len(items))
			fmt.Fprintf(w, "Transcripts: %d\n", len(transcripts))
			tags := make([]string, 0, len(counts))
			total := 0
			for tag, n := range counts {
				tags = append(tags, tag)
				total += n
			}
			sort.Strings(tags)
			fmt.Fprintf(w, "Mistakes:    %d\n", total)
			for _, tag := range tags {
				fmt.Fprintf(w, "  %-20s %d\n", tag, counts[tag])
			}
			return nil
		},
	}
}
