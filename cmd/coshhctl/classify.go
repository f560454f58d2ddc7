package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giygas/coshh-api/hazard"
	"github.com/spf13/cobra"
)

type classification struct {
	Codes           []int                  `json:"codes"`
	ExposureRoutes  hazard.ExposureRoutes  `json:"exposure_routes"`
	ControlMeasures hazard.ControlMeasures `json:"control_measures"`
	Exposure        map[string]bool        `json:"exposure"`
	Controls        map[string]bool        `json:"controls"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [statement...]",
		Short: "Show the exposure routes and control measures for hazard statements",
		Long: `Each argument is one hazard statement, e.g. "H314" or "H225: Highly flammable".
With no arguments, statements are read from stdin, one per line.`,
		Example: `  coshhctl classify H225 H319
  printf 'H314\nH290\n' | coshhctl classify`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	statements := args
	if len(statements) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			statements = append(statements, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read statements: %w", err)
		}
	}

	text := strings.Join(statements, "\n")
	routes, measures := hazard.Classify(text)
	exposure, controls := hazard.Matches(text)

	codes := hazard.SortedCodes(text)
	if codes == nil {
		codes = []int{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(classification{
		Codes:           codes,
		ExposureRoutes:  routes,
		ControlMeasures: measures,
		Exposure:        exposure,
		Controls:        controls,
	})
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the hazard code tables behind each form column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exposure, control := hazard.Categories()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string][]hazard.Category{
				"exposure": exposure,
				"control":  control,
			})
		},
	}
}
