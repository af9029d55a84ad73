package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/fill"

	"github.com/spf13/cobra"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a template with values from a JSON file",
	Long: `Reads a DOCX or XLSX template, replaces its {tag} placeholders with the
string values of a JSON object and writes the result. Image tags take their
content from --image tag=path.`,
	RunE: runFill,
}

var (
	fillTemplate string
	fillValues   string
	fillOut      string
	fillImages   []string
)

func init() {
	fillCmd.Flags().StringVarP(&fillTemplate, "template", "t", "", "Template file (.docx or .xlsx)")
	fillCmd.Flags().StringVarP(&fillValues, "values", "v", "", "JSON object of tag values")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Output file")
	fillCmd.Flags().StringArrayVar(&fillImages, "image", nil, "Image tag as tag=path (repeatable)")
	_ = fillCmd.MarkFlagRequired("template")
	_ = fillCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fillTemplate)), ".")
	filler, err := fill.ForFormat(format, fill.DefaultOptions())
	if err != nil {
		return err
	}

	tpl, err := os.ReadFile(fillTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	values, err := loadValues(fillValues, fillImages)
	if err != nil {
		return err
	}

	out, err := filler.Fill(tpl, values)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fillOut, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, %d tags)\n", fillOut, len(out), len(values))
	if len(values) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Tags: %s\n", strings.Join(values.Tags(), ", "))
	}
	return nil
}

func loadValues(path string, images []string) (fill.Values, error) {
	strs := map[string]string{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values: %w", err)
		}
		if err := json.Unmarshal(data, &strs); err != nil {
			return nil, fmt.Errorf("values must be a JSON object of strings: %w", err)
		}
	}
	values := fill.FromStrings(strs)

	for _, arg := range images {
		tag, file, ok := strings.Cut(arg, "=")
		if !ok || tag == "" || file == "" {
			return nil, fmt.Errorf("invalid --image %q, want tag=path", arg)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", file, err)
		}
		values.SetImage(tag, data)
	}
	return values, nil
}
