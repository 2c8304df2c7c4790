// Package filters holds the transformations that can be applied to a
// flattened MIDI representation between reading and writing. Every
// filter mutates the representation in place and is applied at most
// once per conversion.
package filters

import (
	"sort"

	"midifilter/pkg/midirep"
)

// Registry maps the parameterless filter names accepted on the command
// line. Swing and Unswing take a factor and are wired up separately.
var Registry = map[string]midirep.Transform{
	"none":            Identity,
	"no-chords":       NoChords,
	"integrate-tempo": IntegrateTempo,
}

// Names returns the registry keys, sorted for usage text.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identity does nothing.
func Identity(*midirep.Representation) error {
	return nil
}
