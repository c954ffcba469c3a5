package seeder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/Rana718/seedling/internal/database"
	"github.com/Rana718/seedling/internal/export"
	"github.com/Rana718/seedling/internal/logging"
	"github.com/Rana718/seedling/internal/prompt"
	"github.com/Rana718/seedling/internal/types"
)

const DefaultSeedsPath = "db/seeds"

// Describer resolves a model name to its description and pins its required
// foreign keys to existing rows.
type Describer interface {
	Describe(ctx context.Context, name string) (*types.ModelDescription, error)
	ResolveRequiredAssociations(ctx context.Context, desc *types.ModelDescription) ([]types.AssociationConstraint, error)
}

// Generator turns a prompt into a parsed JSON value.
type Generator interface {
	Generate(ctx context.Context, prompt string) (any, error)
}

type Options struct {
	Model   string
	Count   int
	Context string
	// Export selects a file format. Empty means insert into the database.
	Export string
}

type Result struct {
	Model string
	Table string
	Count int
	// Path is set when the records were exported.
	Path string
}

type Seeder struct {
	describer Describer
	generator Generator
	store     database.Store
	seedsPath string
	logger    *slog.Logger
	out       io.Writer
}

type Option func(*Seeder)

func WithSeedsPath(path string) Option {
	return func(s *Seeder) { s.seedsPath = path }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) { s.logger = logging.OrNop(logger) }
}

// WithOutput redirects the progress lines, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(s *Seeder) { s.out = w }
}

func NewSeeder(describer Describer, generator Generator, store database.Store, opts ...Option) *Seeder {
	s := &Seeder{
		describer: describer,
		generator: generator,
		store:     store,
		seedsPath: DefaultSeedsPath,
		logger:    logging.Nop(),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run generates opts.Count records for opts.Model and either inserts them in
// one transaction or writes them to the seeds directory.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Count < 1 {
		return nil, &InvalidArgumentError{Field: "count", Message: fmt.Sprintf("must be at least 1, got %d", opts.Count)}
	}

	desc, err := s.describer.Describe(ctx, opts.Model)
	if err != nil {
		return nil, err
	}

	constraints, err := s.describer.ResolveRequiredAssociations(ctx, desc)
	if err != nil {
		return nil, err
	}

	s.progress(color.FgCyan, "🌱 Generating %d %s records...", opts.Count, desc.Name)
	s.logger.Info("generating records",
		"model", desc.Name,
		"table", desc.TableName,
		"count", opts.Count,
		"constraints", len(constraints))

	value, err := s.generator.Generate(ctx, prompt.Build(desc, opts.Count, opts.Context, constraints))
	if err != nil {
		return nil, err
	}

	records, err := toRecords(desc, value)
	if err != nil {
		s.logger.Error("generated output rejected", "model", desc.Name, "error", err)
		return nil, err
	}
	if len(records) != opts.Count {
		s.logger.Warn("generated record count differs from requested",
			"model", desc.Name, "requested", opts.Count, "received", len(records))
	}

	result := &Result{Model: desc.Name, Table: desc.TableName, Count: len(records)}

	if opts.Export != "" {
		path, err := s.export(desc, opts.Export, records)
		if err != nil {
			return nil, err
		}
		result.Path = path
		return result, nil
	}

	if err := s.insert(ctx, desc, records); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Seeder) export(desc *types.ModelDescription, format string, records []types.Record) (string, error) {
	if !export.IsSupported(format) {
		return "", &InvalidArgumentError{
			Field:   "export",
			Message: fmt.Sprintf("unsupported format %q, expected one of %v", format, export.Formats),
		}
	}

	path, err := export.WriteRecords(s.seedsPath, desc.TableName, format, records)
	if err != nil {
		s.logger.Error("export failed", "table", desc.TableName, "error", err)
		return "", err
	}

	s.progress(color.FgGreen, "📦 Exported %d records to %s", len(records), path)
	s.logger.Info("records exported", "table", desc.TableName, "count", len(records), "path", path)
	return path, nil
}

func (s *Seeder) insert(ctx context.Context, desc *types.ModelDescription, records []types.Record) error {
	err := s.store.WithTransaction(ctx, func(tx database.Tx) error {
		_, err := tx.BulkInsert(ctx, desc.TableName, desc.AttributeNames(), records)
		return err
	})
	if err != nil {
		s.progress(color.FgRed, "❌ Failed to insert records - %v", err)
		s.logger.Error("insert failed", "table", desc.TableName, "error", err)
		s.logger.Debug("insert failure detail", "table", desc.TableName, "records", records)
		return err
	}

	s.progress(color.FgGreen, "✅ Inserted %d records into %s", len(records), desc.TableName)
	s.logger.Info("records inserted", "table", desc.TableName, "count", len(records))
	return nil
}

func (s *Seeder) progress(attr color.Attribute, format string, args ...any) {
	color.New(attr).Fprintf(s.out, format+"\n", args...)
}
