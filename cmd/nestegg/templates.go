package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestegg/internal/transform"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List what-if templates and transforms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprint(w, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))

		fmt.Fprintln(w, "\nTransforms (for --transform, as name:key=value,...):")
		for _, name := range transform.NewTransformRegistry().List() {
			fmt.Fprintf(w, "  %s\n", name)
		}
	},
}
