package linter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed config.schema.json
var configSchemaJSON string

const configSchemaURL = "config.schema.json"

var (
	configSchemaOnce sync.Once
	configSchema     *jsValidator.Schema
	defaultPrinter   = message.NewPrinter(language.English)
)

func compiledConfigSchema() *jsValidator.Schema {
	configSchemaOnce.Do(func() {
		doc, err := jsValidator.UnmarshalJSON(strings.NewReader(configSchemaJSON))
		if err != nil {
			panic(err)
		}

		c := jsValidator.NewCompiler()
		if err := c.AddResource(configSchemaURL, doc); err != nil {
			panic(err)
		}
		configSchema = c.MustCompile(configSchemaURL)
	})
	return configSchema
}

// validateConfigDocument checks a decoded YAML document against the configuration schema and
// returns one error per violated leaf.
func validateConfigDocument(doc any) []error {
	if doc == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return []error{fmt.Errorf("config is not representable as JSON: %w", err)}
	}

	inst, err := jsValidator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return []error{fmt.Errorf("config is not representable as JSON: %w", err)}
	}

	err = compiledConfigSchema().Validate(inst)
	if err == nil {
		return nil
	}

	var validationErr *jsValidator.ValidationError
	if !errors.As(err, &validationErr) {
		return []error{err}
	}
	return schemaRootCauses(validationErr)
}

func schemaRootCauses(err *jsValidator.ValidationError) []error {
	if len(err.Causes) == 0 {
		location := strings.Join(err.InstanceLocation, ".")
		if location == "" {
			location = "(root)"
		}
		return []error{fmt.Errorf("%s: %s", location, err.ErrorKind.LocalizedString(defaultPrinter))}
	}

	var errs []error
	for _, cause := range err.Causes {
		errs = append(errs, schemaRootCauses(cause)...)
	}
	return errs
}
