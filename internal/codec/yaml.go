// Package codec serializes person records for the merge store. The store only
// depends on the Codec contract, so the wire syntax stays exchangeable.
package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
)

// Codec encodes and decodes one person record. Decode(Encode(p)) must return
// a record equal to p for any valid person.
type Codec interface {
	Encode(person domain.Person) ([]byte, error)
	Decode(data []byte) (domain.Person, error)
}

// YAML is the default Codec implementation.
type YAML struct{}

// Encode marshals the person record.
func (YAML) Encode(person domain.Person) ([]byte, error) {
	data, err := yaml.Marshal(person)
	if err != nil {
		return nil, fmt.Errorf("encode person %q: %w", person.Name, err)
	}
	return data, nil
}

// Decode unmarshals and validates a person record. Both structural failures
// and data-model violations surface as domain.ErrDecode wraps so callers can
// tell a bad record from a missing one.
func (YAML) Decode(data []byte) (domain.Person, error) {
	var person domain.Person
	if err := yaml.Unmarshal(data, &person); err != nil {
		return domain.Person{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if err := person.Validate(); err != nil {
		return domain.Person{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return person, nil
}
