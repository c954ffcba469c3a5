package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rana718/seedling/internal/schema"
)

var describeCmd = &cobra.Command{
	Use:   "describe <model>",
	Short: "Show the model description used to build prompts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Close()

		desc, err := schema.NewDescriber(sess.adapter, sess.logger).Describe(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !asJSON {
			fmt.Fprint(out, desc.Summary())
			return nil
		}

		data, err := json.MarshalIndent(desc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("json", false, "Print the description as JSON")
}
