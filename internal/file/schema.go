package file

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://github.com/divVerent/vkeyboard/keyboard.schema.json"

//go:embed keyboard.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	keyboardSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		keyboardSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return keyboardSchema, schemaErr
}

// validateSchema checks a generically decoded keyboard document.
func validateSchema(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// Schema returns the JSON schema keyboard definition files follow.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}
