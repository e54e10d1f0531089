package memory

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a provider record file.
type catalogFile struct {
	Records []Record `yaml:"records"`
}

// LoadCatalog reads a YAML record file for one entity type.
func LoadCatalog(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	for i := range f.Records {
		if f.Records[i].ID == "" {
			return nil, fmt.Errorf("catalog %s: record %d has no id", path, i)
		}
		if f.Records[i].Title == "" {
			return nil, fmt.Errorf("catalog %s: record %q has no title", path, f.Records[i].ID)
		}
	}
	return f.Records, nil
}
