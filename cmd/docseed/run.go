package main

import (
	"fmt"

	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/errors"
	"github.com/autom8ter/docseed/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		all         bool
		fixturesDir string
	)
	cmd := &cobra.Command{
		Use:   "run [plan...]",
		Short: "seed the store with the named plans or presets",
		Example: `  docseed run careers --params '{"project_id": "my-project", "credentials_file": "serviceAccountKey.json"}'
  docseed run --all -c docseed.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			plans, err := selectPlans(cfg, args, all)
			if err != nil {
				return err
			}
			if fixturesDir != "" {
				cfg.FixturesDir = fixturesDir
			}
			seeder, err := flags.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer seeder.Store().Close()
			for _, plan := range plans {
				report, err := seeder.RunPlan(cmd.Context(), plan, cfg.FixturesDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: cleared %d, added %d documents in %d batches\n",
					report.Name, report.Cleared, len(report.Written), report.Batches)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run every configured plan and preset")
	cmd.Flags().StringVar(&fixturesDir, "fixtures-dir", "", "directory relative fixture paths are resolved against")
	return cmd
}

func clearCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <collection>",
		Short: "delete every document of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := model.ParseAddress(args[0])
			if err != nil {
				return err
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			seeder, err := flags.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer seeder.Store().Close()
			n, err := seeder.ClearCollection(cmd.Context(), collection)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted %d documents\n", collection.String(), n)
			return nil
		},
	}
}

func selectPlans(cfg *docseed.Config, names []string, all bool) ([]docseed.Plan, error) {
	if all {
		return cfg.AllPlans(), nil
	}
	if len(names) == 0 {
		return nil, errors.New(errors.Validation, "no plan given, use --all to run every plan")
	}
	var plans []docseed.Plan
	for _, name := range lo.Uniq(names) {
		plan, ok := cfg.Plan(name)
		if !ok {
			return nil, errors.New(errors.NotFound, "unknown plan %q", name)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
