package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseError reports a manifest that could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't read %s as a package manifest: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Path returns the manifest path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains a manifest.
func Exists(dir string) bool {
	info, err := os.Stat(Path(dir))
	return err == nil && !info.IsDir()
}

// Load reads the manifest in dir.
func Load(dir string) (*Package, error) {
	return LoadFile(Path(dir))
}

// LoadFile reads and parses a manifest file.
func LoadFile(path string) (*Package, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a project manifest
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes manifest content. source is only used in error messages.
func Parse(source string, data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}
	if pkg.Name == "" {
		return nil, &ParseError{Path: source, Err: fmt.Errorf("name is required")}
	}
	pkg.Raw = data
	return &pkg, nil
}

// Sections lists the manifest objects that may declare a dependency.
var Sections = []string{"dependencies", "devDependencies"}

// SetDependencyVersion rewrites the declared version of dep in every section
// that declares it, leaving the rest of the document untouched. It reports
// whether anything changed.
func SetDependencyVersion(raw []byte, dep, version string) ([]byte, bool, error) {
	changed := false
	for _, section := range Sections {
		key := section + "." + escapeKey(dep)
		if !gjson.GetBytes(raw, key).Exists() {
			continue
		}
		out, err := sjson.SetBytes(raw, key, version)
		if err != nil {
			return nil, false, fmt.Errorf("setting %s: %w", key, err)
		}
		raw = out
		changed = true
	}
	return raw, changed, nil
}

// Save writes raw manifest content to dir.
func Save(dir string, raw []byte) error {
	if err := os.WriteFile(Path(dir), raw, 0644); err != nil { //nolint:gosec // manifests are world-readable
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// escapeKey makes a package name usable as a single gjson/sjson path element.
// Scoped names ("@scope/pkg") and dotted names ("lodash.merge") would
// otherwise be read as modifiers or nested paths.
func escapeKey(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
