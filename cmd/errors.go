package cmd

import (
	"errors"
	"fmt"

	"github.com/Rana718/seedling/internal/ai"
	"github.com/Rana718/seedling/internal/config"
	"github.com/Rana718/seedling/internal/schema"
	"github.com/Rana718/seedling/internal/seeder"
)

// userMessage renders err as the one line shown before exiting.
func userMessage(err error) string {
	var (
		cfgErr      *config.Error
		aiCfgErr    *ai.ConfigurationError
		argErr      *seeder.InvalidArgumentError
		notFound    *schema.NotFoundError
		abstract    *schema.AbstractModelError
		missing     *schema.MissingParentDataError
		contractErr *seeder.RecordContractError
		remoteErr   *ai.RemoteServiceError
		parseErr    *ai.JSONExtractionError
	)

	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case errors.As(err, &aiCfgErr):
		return "Configuration error: " + aiCfgErr.Error()
	case errors.As(err, &argErr):
		return argErr.Error()
	case errors.As(err, &notFound), errors.As(err, &abstract), errors.As(err, &missing):
		return err.Error()
	case errors.Is(err, ai.ErrNoAssistantMessage), errors.Is(err, ai.ErrNoOutputText):
		return fmt.Sprintf("Unexpected response from the generation service: %v", err)
	case errors.As(err, &contractErr):
		return contractErr.Error()
	case errors.As(err, &remoteErr):
		return remoteErr.Error()
	case errors.As(err, &parseErr):
		return "The generation service did not return valid JSON: " + parseErr.Err.Error()
	default:
		return err.Error()
	}
}
