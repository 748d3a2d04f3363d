package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthassist-server/internal/service"
)

func newCheckCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check SYMPTOM...",
		Short: "Match symptoms against the knowledge base",
		Example: `  healthctl check fever cough fatigue
  healthctl check "runny nose" sneezing --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := service.CheckSymptoms(args)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for i, r := range results {
				if r.IsSentinel() {
					fmt.Fprintf(out, "%s\n  %s\n", r.ConditionName, r.Advice)
					continue
				}
				fmt.Fprintf(out, "%d. %s (%d matching symptoms)\n  %s\n", i+1, r.ConditionName, r.MatchedCount, r.Advice)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

func newConditionsCmd() *cobra.Command {
	var vocabulary bool

	cmd := &cobra.Command{
		Use:   "conditions",
		Short: "List the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if vocabulary {
				for _, s := range service.Vocabulary() {
					fmt.Fprintln(out, s)
				}
				return nil
			}
			for _, c := range service.Conditions() {
				fmt.Fprintf(out, "%s: %s\n", c.Name, strings.Join(c.IndicatorSymptoms, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&vocabulary, "vocabulary", false, "list the distinct symptom labels instead")

	return cmd
}
