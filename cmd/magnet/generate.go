package main

import (
	"github.com/spf13/cobra"

	"github.com/pablor21/magnet"
)

func GenerateCmd(root *rootOptions) *cobra.Command {
	var (
		suffix string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write BsonSchema accessors for every @BsonSchema type",
		Long: "Scans the given package patterns or file globs (default from the config, ./...) and writes\n" +
			"one <package><suffix> file per package containing annotated types.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := root.processContext(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("suffix") {
				ctx.Config.Output.Suffix = suffix
			}
			if cmd.Flags().Changed("dry-run") {
				ctx.Config.Output.DryRun = dryRun
			}
			files, err := magnet.Generate(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			ctx.Logger.Info("done", "files", len(files))
			return nil
		},
	}
	cmd.Flags().StringVar(&suffix, "suffix", "", "generated file suffix")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing files")
	return cmd
}
