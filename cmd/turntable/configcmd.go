package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/turntable/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Write the effective configuration",
		Long: `Write the configuration that results from defaults, the config file and
any flags given, so it can be edited and reused. Without a path it is
written to the user config directory, where turntable finds it on start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(nil)
			if err != nil {
				return err
			}

			path := config.UserFile()
			if len(args) > 0 {
				path = args[0]
				err = cfg.SaveTo(path)
			} else {
				err = cfg.Save()
			}
			if err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
