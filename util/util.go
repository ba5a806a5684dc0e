package util

import (
	"encoding/json"

	"github.com/autom8ter/docseed/errors"
	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// ValidateStruct validates the struct's `validate` tags
func ValidateStruct(val any) error {
	return errors.Wrap(validate.Struct(val), errors.Validation, "")
}

// Decode decodes the input into the output based on json tags
func Decode(input any, output any) error {
	config := &mapstructure.DecoderConfig{
		WeaklyTypedInput:     true,
		Result:               output,
		TagName:              "json",
		IgnoreUntaggedFields: true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// JSONString returns a json string of the input
func JSONString(input any) string {
	bits, _ := json.Marshal(input)
	return string(bits)
}

// YAMLToJSON converts yaml content to json. JSON content is returned unchanged.
func YAMLToJSON(yamlContent []byte) ([]byte, error) {
	if isJSON(string(yamlContent)) {
		return yamlContent, nil
	}
	return yaml.YAMLToJSON(yamlContent)
}

// JSONToYAML converts json content to yaml
func JSONToYAML(jsonContent []byte) ([]byte, error) {
	return yaml.JSONToYAML(jsonContent)
}

// DecodeYAML decodes yaml or json content into output, which is then validated
func DecodeYAML(content []byte, output any) error {
	jsonContent, err := YAMLToJSON(content)
	if err != nil {
		return errors.Wrap(err, errors.Validation, "invalid yaml")
	}
	var raw any
	if err := json.Unmarshal(jsonContent, &raw); err != nil {
		return errors.Wrap(err, errors.Validation, "invalid json")
	}
	if err := Decode(raw, output); err != nil {
		return errors.Wrap(err, errors.Validation, "failed to decode")
	}
	return ValidateStruct(output)
}

func isJSON(str string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(str), &js) == nil
}
