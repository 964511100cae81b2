package memory

import (
	"os"
	"slices"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/henkan/pkg/errors"
)

// Dictionary maps readings to candidate texts in rank order.
//
// On disk it is YAML:
//
//	readings:
//	  とうきょう: [東京, 凍京]
//	  と: [都, 戸]
//	blobs:
//	  こわれ: '[{"text": "壊'
type Dictionary struct {
	Readings map[string][]string `yaml:"readings"`

	// Blobs are returned verbatim for their reading instead of a generated answer.
	Blobs map[string]string `yaml:"blobs,omitempty"`
}

// LoadDictionary reads a YAML dictionary file.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseDictionary(path, data)
}

// ParseDictionary decodes YAML dictionary data. name is used in errors only.
func ParseDictionary(name string, data []byte) (*Dictionary, error) {
	var dict Dictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if dict.Readings == nil {
		dict.Readings = make(map[string][]string)
	}
	return &dict, nil
}

// Marshal encodes the dictionary as YAML.
func (d *Dictionary) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(d, yaml.Indent(2), yaml.IndentSequence(false))
}

// Merge adds every reading and blob of other. New texts go after existing
// ones, and texts already listed for a reading are skipped.
func (d *Dictionary) Merge(other *Dictionary) {
	if other == nil {
		return
	}
	if d.Readings == nil {
		d.Readings = make(map[string][]string)
	}
	for reading, texts := range other.Readings {
		for _, text := range texts {
			if !slices.Contains(d.Readings[reading], text) {
				d.Readings[reading] = append(d.Readings[reading], text)
			}
		}
	}
	for reading, blob := range other.Blobs {
		if d.Blobs == nil {
			d.Blobs = make(map[string]string)
		}
		d.Blobs[reading] = blob
	}
}

// Len returns the number of readings.
func (d *Dictionary) Len() int {
	return len(d.Readings)
}

// SortedReadings returns the readings in byte order.
func (d *Dictionary) SortedReadings() []string {
	readings := make([]string, 0, len(d.Readings))
	for reading := range d.Readings {
		readings = append(readings, reading)
	}
	sort.Strings(readings)
	return readings
}
