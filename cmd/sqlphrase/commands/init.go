package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlphrase/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to a config file",
		Long: `Write the effective settings (flags, environment and any existing config
file) to .sqlphrase.yaml. Without --dir the file goes to
~/.config/sqlphrase.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path string
				err  error
			)
			if dir == "" {
				path, err = config.Save(a.cfg)
			} else {
				path, err = config.SaveTo(config.AppFs, dir, a.cfg)
			}
			if err != nil {
				return err
			}
			a.printer(cmd).Success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to write the config file to")
	return cmd
}
