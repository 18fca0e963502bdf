package gauge

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SaveState writes s as YAML.
func SaveState(w io.Writer, s State) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding needle state: %w", err)
	}
	return nil
}

// LoadState reads a State written by SaveState. Missing fields take the values
// of an uninitialised, idle needle.
func LoadState(r io.Reader) (State, error) {
	s := NewState(0)
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return State{}, fmt.Errorf("decoding needle state: %w", err)
	}
	for _, f := range []float64{s.Current, s.Target, s.Velocity, s.Acceleration} {
		if !finite(f) {
			return State{}, &InvalidValueError{Value: f}
		}
	}
	return s, nil
}
