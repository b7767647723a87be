package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides of credentials. Path segments
// are separated by a double underscore: LEAPDATA_CREDENTIALS__WAREHOUSE__CON
// sets the con of the warehouse credentials.
const EnvPrefix = "LEAPDATA_CREDENTIALS__"

// delim separates koanf key segments. Dataset names commonly contain dots,
// so "." cannot be used.
const delim = "/"

// Entry is one dataset definition in a catalog file.
type Entry struct {
	// Type is "sql_table" or "sql_query".
	Type      string `koanf:"type"`
	TableName string `koanf:"table_name"`
	SQL       string `koanf:"sql"`
	Filepath  string `koanf:"filepath"`
	// Credentials names an entry of the credentials section.
	Credentials string         `koanf:"credentials"`
	LoadArgs    map[string]any `koanf:"load_args"`
	SaveArgs    map[string]any `koanf:"save_args"`
	// Layer is informational and only shown by listings.
	Layer string `koanf:"layer"`
}

// File is the decoded content of a catalog and its credentials.
type File struct {
	Datasets    map[string]Entry             `koanf:"datasets"`
	Credentials map[string]map[string]string `koanf:"credentials"`
}

// LoadFile reads a catalog file and, when credentialsPath is not empty, a
// separate credentials file whose top-level keys are credential names.
// Precedence (highest to lowest): env vars > credentials file > catalog file.
// ${VAR} references in credential values are expanded from the environment.
func LoadFile(catalogPath, credentialsPath string) (*File, error) {
	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(map[string]any{
		"datasets":    map[string]any{},
		"credentials": map[string]any{},
	}, delim), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(file.Provider(catalogPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading catalog file %s: %w", catalogPath, err)
	}

	if credentialsPath != "" {
		creds := koanf.New(delim)
		if err := creds.Load(file.Provider(credentialsPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading credentials file %s: %w", credentialsPath, err)
		}
		if err := k.MergeAt(creds, "credentials"); err != nil {
			return nil, fmt.Errorf("failed to merge credentials: %w", err)
		}
	}

	// LEAPDATA_CREDENTIALS__WAREHOUSE__CON -> credentials/warehouse/con
	if err := k.Load(env.Provider(EnvPrefix, delim, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return "credentials" + delim + strings.ReplaceAll(key, "__", delim)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var f File
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &f,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode catalog %s: %w", catalogPath, err)
	}

	for name, values := range f.Credentials {
		for key, v := range values {
			values[key] = expandEnvVars(v)
		}
		f.Credentials[name] = values
	}
	return &f, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
