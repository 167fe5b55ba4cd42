package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCatalog represents the structure of the optional seed YAML file.
// Clinics typically start from a shared medicine/diagnosis catalog that is
// easier to maintain in YAML than in SQL seed scripts.
type SeedCatalog struct {
	Medicines []MedicineSeed  `yaml:"medicines"`
	Diagnoses []DiagnosisSeed `yaml:"diagnoses"`
}

// MedicineSeed defines a catalog medicine in the seed file.
type MedicineSeed struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description,omitempty"`
	DosageForm   string `yaml:"dosage_form,omitempty"`
	Strength     string `yaml:"strength,omitempty"`
	Manufacturer string `yaml:"manufacturer,omitempty"`
}

// DiagnosisSeed defines a catalog diagnosis in the seed file.
type DiagnosisSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	ICDCode     string `yaml:"icd_code,omitempty"`
	Category    string `yaml:"category,omitempty"`
}

// LoadSeedCatalog loads the YAML seed catalog from the configured path.
// Returns nil without error if no seed file is configured or the file
// doesn't exist.
func (c *Config) LoadSeedCatalog() (*SeedCatalog, error) {
	path := c.SeedFile
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var catalog SeedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}

	return &catalog, nil
}
