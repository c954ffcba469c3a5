package seeder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Rana718/seedling/internal/types"
)

const contractURL = "seedling://record-contract.json"

// compileContract builds the JSON schema every generated payload must meet:
// an array of objects whose keys are attributes of desc.
func compileContract(desc *types.ModelDescription) (*jsonschema.Schema, error) {
	names := desc.AttributeNames()
	if names == nil {
		names = []string{}
	}

	schema := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "array",
		"items": map[string]any{
			"type":          "object",
			"propertyNames": map[string]any{"enum": names},
		},
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record contract: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(contractURL, strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("failed to add record contract: %w", err)
	}
	return compiler.Compile(contractURL)
}

// toRecords checks v against the record contract of desc and converts it.
func toRecords(desc *types.ModelDescription, v any) ([]types.Record, error) {
	schema, err := compileContract(desc)
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, &RecordContractError{Model: desc.Name, Violations: leafMessages(verr, nil)}
		}
		return nil, &RecordContractError{Model: desc.Name, Violations: []string{err.Error()}}
	}

	items := v.([]any)
	records := make([]types.Record, len(items))
	for i, item := range items {
		records[i] = item.(map[string]any)
	}
	return records, nil
}

func leafMessages(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		out = leafMessages(cause, out)
	}
	return out
}
