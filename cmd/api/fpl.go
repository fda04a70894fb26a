package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/config"
)

func fplCmd(configPath *string) *cobra.Command {
	var income float64
	var members int

	c := &cobra.Command{
		Use:   "fpl",
		Short: "Print income as a fraction of the poverty guideline (no storage)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if members < 1 {
				return fmt.Errorf("--members must be at least 1")
			}
			if income < 0 {
				return fmt.Errorf("--income must not be negative")
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Guidelines().Percentage(income, members))
			return nil
		},
	}

	c.Flags().Float64Var(&income, "income", 0, "Household income (required)")
	c.Flags().IntVar(&members, "members", 0, "Number of household members (required)")

	_ = c.MarkFlagRequired("income")
	_ = c.MarkFlagRequired("members")
	return c
}
