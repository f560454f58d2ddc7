package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/data"
	"github.com/giygas/coshh-api/validation"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	input      string
	formPath   string
	ticksPath  string
	output     string
	maxRecords int
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a COSHH document from a JSON array of chemical records",
		Long: `Reads [{"name": ..., "amount": ..., "hazards": [...]}, ...] from --input
(or stdin when --input is "-") and writes the filled form. Without --output the
document is written to the current directory as COSHH_<timestamp>.docx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "records JSON file, - for stdin")
	cmd.Flags().StringVar(&opts.formPath, "form", "templates/COSHH_Form_Template.docx", "form template")
	cmd.Flags().StringVar(&opts.ticksPath, "ticks", "templates/COSHH_Ticks_Template.docx", "ticks template")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().IntVar(&opts.maxRecords, "max-records", 200, "maximum number of records")

	return cmd
}

func readRecords(cmd *cobra.Command, input string) ([]coshh.ChemicalRecord, error) {
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(filepath.Clean(input))
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []coshh.ChemicalRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	records, err := readRecords(cmd, opts.input)
	if err != nil {
		return err
	}

	if err := validation.NewInputValidator(opts.maxRecords).ValidateRecords(records); err != nil {
		return err
	}

	templates := data.NewTemplateContainer()
	if err := templates.LoadFromDisk(opts.formPath, opts.ticksPath); err != nil {
		return err
	}

	doc, err := coshh.NewAssembler(templates).Assemble(records)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = doc.Filename
	}
	if err := os.WriteFile(output, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d chemicals, id %s)\n", output, doc.Rows, doc.ID)
	return nil
}
