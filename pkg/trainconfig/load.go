package trainconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/menta2k/trainkit/pkg/errdefs"
)

// EnvPrefix is the prefix of the environment variables that override
// configuration values. Nested keys are separated by a double underscore:
// TRAINKIT_OPTIMIZER__ADAM__BETA_1=0.95 sets optimizer.adam.beta_1.
const EnvPrefix = "TRAINKIT_"

const schemaURL = "https://github.com/menta2k/trainkit/pkg/trainconfig/schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parser returns the koanf parser for a format: "yaml", "yml" or "json"
func Parser(format string) (koanf.Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		return yaml.Parser(), nil
	case "json":
		return kjson.Parser(), nil
	}
	return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "unsupported configuration format %q", format)
}

// LoadFile reads a YAML or JSON document, chosen by the file extension
func LoadFile(path string) (*TrainingConfig, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	cfg, err := Load(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Load parses a document, normalises its keys, applies the environment
// overrides, validates the result against the configuration schema and
// decodes it. Every failure wraps errdefs.ErrInvalidConfig.
func Load(data []byte, format string) (*TrainingConfig, error) {
	parser, err := Parser(format)
	if err != nil {
		return nil, err
	}
	raw, err := parser.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "parsing: %v", err)
	}
	return FromMap(raw)
}

// FromMap builds a configuration from an already parsed document
func FromMap(raw map[string]interface{}) (*TrainingConfig, error) {
	if err := ConvertAllKeysSnakeCase(raw); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "loading: %v", err)
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "loading environment: %v", err)
	}

	if err := validate(k.Raw()); err != nil {
		return nil, err
	}

	cfg := &TrainingConfig{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "decoding: %v", err)
	}
	return cfg, nil
}

// ConvertAllKeysSnakeCase traverses a parsed document to replace all keys
// with their snake_case form. Two keys of one object normalising to the same
// form, such as "beta1" and "beta_1", are an ErrInvalidConfig.
func ConvertAllKeysSnakeCase(i interface{}) error {
	switch v := i.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		normalised := make(map[string]interface{}, len(v))
		origin := make(map[string]string, len(v))
		for _, k := range keys {
			sc := strcase.ToSnake(k)
			if prev, ok := origin[sc]; ok {
				return errors.Wrapf(errdefs.ErrInvalidConfig, "keys %q and %q both normalise to %q", prev, k, sc)
			}
			if err := ConvertAllKeysSnakeCase(v[k]); err != nil {
				return err
			}
			origin[sc] = k
			normalised[sc] = v[k]
		}
		for _, k := range keys {
			delete(v, k)
		}
		for k, vv := range normalised {
			v[k] = vv
		}
	case []interface{}:
		for _, vv := range v {
			if err := ConvertAllKeysSnakeCase(vv); err != nil {
				return err
			}
		}
	case []map[string]interface{}:
		for _, vv := range v {
			if err := ConvertAllKeysSnakeCase(vv); err != nil {
				return err
			}
		}
	}
	return nil
}

func envValue(key, value string) (string, interface{}) {
	segments := strings.Split(strings.TrimPrefix(key, EnvPrefix), "__")
	for i, seg := range segments {
		// same normalisation as document keys: L1_STRENGTH is l_1_strength
		segments[i] = strcase.ToSnake(strings.ToLower(seg))
	}
	key = strings.Join(segments, ".")
	switch strings.SplitN(key, ".", 2)[0] {
	case "optimizer", "loss", "preprocessing":
	default:
		// not a configuration key, eg TRAINKIT_DEBUG
		return "", nil
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return key, i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return key, f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return key, b
	}
	return key, value
}

func validate(doc map[string]interface{}) error {
	s, err := compiledSchema()
	if err != nil {
		return errors.Wrap(err, "compiling configuration schema")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(errdefs.ErrInvalidConfig, "encoding: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return errors.Wrapf(errdefs.ErrInvalidConfig, "encoding: %v", err)
	}

	if err := s.Validate(v); err != nil {
		return errors.Wrapf(errdefs.ErrInvalidConfig, "%v", err)
	}
	return nil
}
