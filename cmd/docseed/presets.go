package main

import (
	"encoding/json"
	"fmt"

	"github.com/autom8ter/docseed/util"
	"github.com/spf13/cobra"
)

func presetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "print the configured plans and built-in presets as yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			bits, err := json.Marshal(map[string]any{"plans": cfg.AllPlans()})
			if err != nil {
				return err
			}
			yml, err := util.JSONToYAML(bits)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(yml))
			return nil
		},
	}
}
