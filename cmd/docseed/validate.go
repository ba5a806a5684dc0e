package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(flags *globalFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "validate [plan...]",
		Short: "load, map and enrich the plans' fixtures without writing to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			plans, err := selectPlans(cfg, args, all)
			if err != nil {
				return err
			}
			for _, plan := range plans {
				job, err := plan.Build(cfg.FixturesDir)
				if err != nil {
					return err
				}
				records, err := job.Records()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", plan.Name, len(records))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "validate every configured plan and preset")
	return cmd
}
