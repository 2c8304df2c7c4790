package midirep

import (
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Transform mutates a representation in place between the two
// conversions. The core imposes no validation beyond what the
// serializer checks; a transform that breaks the representation
// invariants gets undefined output, not an error.
type Transform func(*Representation) error

// ProcessFile reads the MIDI file at src, flattens it, applies fn (which
// may be nil) and writes the result to dst at the given resolution. The
// destination file is only created once serialization has succeeded.
func ProcessFile(src, dst string, ticksPerBeat uint16, fn Transform) error {
	s, err := smf.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	rep, err := FromSMF(s)
	if err != nil {
		return err
	}

	if fn != nil {
		if err := fn(rep); err != nil {
			return fmt.Errorf("transform: %w", err)
		}
	}

	out, err := ToSMF(rep, ticksPerBeat)
	if err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := out.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return f.Close()
}
