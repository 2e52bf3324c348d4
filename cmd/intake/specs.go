package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/spf13/cobra"
)

func specsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specs FILE",
		Short: "Check a spec file and print its rules",
		Long: `Specs parses a spec file, expands extension presets and prints one
line per field, including the value for an HTML accept attribute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := intake.LoadSpecs(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tTARGET\tREQUIRED\tREPLACE\tHISTORY\tACCEPT")
			for _, s := range specs {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%t\t%s\n",
					s.FieldKey,
					s.TargetDir,
					s.Required,
					s.ReplaceExisting,
					s.KeepHistory,
					filevalidator.AcceptList(s.AllowedExtensions, nil),
				)
			}
			return tw.Flush()
		},
	}
}
