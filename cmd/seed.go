package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rana718/seedling/internal/ai"
	"github.com/Rana718/seedling/internal/schema"
	"github.com/Rana718/seedling/internal/seeder"
)

const defaultSeedCount = 10

var seedCmd = &cobra.Command{
	Use:   "seed [model]",
	Short: "Generate records for a model and insert or export them",
	Long: `Generate records for one model with the configured generation service.

Without --export the records are inserted in a single transaction. With
--export yaml|json they are written to <seeds_path>/<table>.<format> instead.

MODEL, COUNT, CONTEXT and EXPORT environment variables are used when the
argument or the matching flag is not given.`,
	Example: `  seedling seed User --count 5
  seedling seed posts --context "a tech blog" --export yaml
  MODEL=User COUNT=3 seedling seed`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := seedOptions(cmd, args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Close()

		describer := schema.NewDescriber(sess.adapter, sess.logger)
		client := ai.NewClient(sess.cfg.AIConfig(), sess.logger)

		s := seeder.NewSeeder(describer, client, sess.adapter,
			seeder.WithSeedsPath(sess.cfg.SeedsPath),
			seeder.WithLogger(sess.logger),
			seeder.WithOutput(cmd.OutOrStdout()))

		_, err = s.Run(ctx, opts)
		return err
	},
}

// seedOptions merges the positional model and flags with their environment
// fallbacks. A flag set on the command line always wins.
func seedOptions(cmd *cobra.Command, args []string) (seeder.Options, error) {
	flags := cmd.Flags()
	opts := seeder.Options{}

	if len(args) > 0 {
		opts.Model = args[0]
	} else {
		opts.Model = os.Getenv("MODEL")
	}
	opts.Model = strings.TrimSpace(opts.Model)
	if opts.Model == "" {
		return opts, &seeder.InvalidArgumentError{
			Field:   "model",
			Message: "missing model, usage: seedling seed <model> [--count N] [--context TEXT] [--export yaml|json]",
		}
	}

	opts.Count, _ = flags.GetInt("count")
	if !flags.Changed("count") {
		if raw := os.Getenv("COUNT"); raw != "" {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return opts, &seeder.InvalidArgumentError{Field: "count", Message: fmt.Sprintf("COUNT=%q is not a number", raw)}
			}
			opts.Count = n
		}
	}

	opts.Context, _ = flags.GetString("context")
	if !flags.Changed("context") {
		opts.Context = os.Getenv("CONTEXT")
	}

	opts.Export, _ = flags.GetString("export")
	if !flags.Changed("export") {
		opts.Export = os.Getenv("EXPORT")
	}
	opts.Export = strings.ToLower(strings.TrimSpace(opts.Export))

	return opts, nil
}

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("count", "n", defaultSeedCount, "Number of records to generate")
	cmd.Flags().StringP("context", "c", "", "Free-text hint about the data domain")
	cmd.Flags().StringP("export", "e", "", "Write records to a file instead of inserting (yaml or json)")
}

func init() {
	rootCmd.AddCommand(seedCmd)
	addSeedFlags(seedCmd)
}
