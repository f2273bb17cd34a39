package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet"
	"github.com/pablor21/magnet/bsonschema"
	"github.com/pablor21/magnet/types"
)

func PrintCmd(root *rootOptions) *cobra.Command {
	var (
		only      []string
		validator bool
	)
	cmd := &cobra.Command{
		Use:   "print [patterns...]",
		Short: "Print derived schemas as relaxed extended JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := root.processContext(cmd, args)
			if err != nil {
				return err
			}
			res, err := magnet.ProcessWithContext(ctx)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
			return printSchemas(cmd, res, only, validator)
		},
	}
	cmd.Flags().StringSliceVarP(&only, "type", "t", nil, "only print these type names")
	cmd.Flags().BoolVar(&validator, "validator", false, "wrap each schema in a $jsonSchema validator")
	return cmd
}

func printSchemas(cmd *cobra.Command, res *types.ProcessResult, only []string, validator bool) error {
	out := cmd.OutOrStdout()
	for _, s := range res.Schemas {
		if len(only) > 0 && !slices.Contains(only, s.Type.Name) {
			continue
		}
		doc := s.Schema
		if validator {
			doc = bsonschema.Validator(doc)
		}
		data, err := bson.MarshalExtJSONIndent(doc, false, false, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema of %s: %w", s.Type.CanonicalName, err)
		}
		fmt.Fprintf(out, "// %s\n%s\n", s.Type.CanonicalName, data)
	}
	return nil
}
