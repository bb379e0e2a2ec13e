package trips

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk form of the registry.
type Catalog struct {
	Trips []Descriptor `mapstructure:"trips" yaml:"trips"`
}

// Load reads a catalog file. The format follows the file extension; YAML,
// JSON and TOML are accepted.
func Load(file string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(c.Trips)
}

// Save writes the descriptors as a YAML catalog.
func Save(file string, descs []Descriptor) error {
	fd, err := os.Create(file)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(fd)
	enc.SetIndent(2)
	if err := enc.Encode(Catalog{Trips: descs}); err != nil {
		fd.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
