package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// jsonFile is one JSON-backed collection. Reads that find the file missing
// or malformed reinitialize it to the given default and persist that
// default before returning. Writes always rewrite the whole document, so a
// crash mid-mutation loses at most the in-flight change.
//
// The files stay indented so they remain hand-editable; that layout is part
// of the storage contract.
type jsonFile struct {
	path string
}

func newJSONFile(dir, name string) *jsonFile {
	return &jsonFile{path: filepath.Join(dir, name)}
}

// load reads the collection into out. When the file is absent or
// unreadable as JSON the collection is reset to defaultFn() and that
// default is persisted before returning.
func (f *jsonFile) load(out interface{}, defaultFn func() interface{}) error {
	data, err := os.ReadFile(f.path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, out); jsonErr == nil {
			return nil
		}
		// A decode that fails partway can leave entries from the broken
		// file in out. Clear it so only the default survives.
		zero(out)
	}

	// Missing or malformed: reset to the default.
	defaultValue := defaultFn()
	if err := f.save(defaultValue); err != nil {
		return err
	}

	defaultData, err := json.Marshal(defaultValue)
	if err != nil {
		return fmt.Errorf("failed to marshal default collection: %w", err)
	}
	return json.Unmarshal(defaultData, out)
}

// zero resets the pointed-to collection to its zero value.
func zero(out interface{}) {
	v := reflect.ValueOf(out).Elem()
	v.Set(reflect.Zero(v.Type()))
}

func (f *jsonFile) save(v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}
