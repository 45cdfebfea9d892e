package checksum

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed is returned when a checksum file holds no digest token.
var ErrMalformed = errors.New("checksum file has no digest")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ArtifactPath drops the last dot-delimited segment of the checksum file
// name and resolves the result in the same directory.
func ArtifactPath(checksumPath string) string {
	dir, name := filepath.Split(checksumPath)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return filepath.Join(dir, name)
}

// Parse returns the first whitespace-delimited token of a checksum file.
// Anything after it (usually the artifact name) is ignored.
func Parse(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	fields := strings.Fields(string(content))
	if len(fields) == 0 {
		return "", ErrMalformed
	}
	return fields[0], nil
}

func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Descriptor{}, errors.Wrapf(err, "read checksum file %s", path)
	}

	expected, err := Parse(data)
	if err != nil {
		return Descriptor{}, errors.Wrapf(err, "parse %s", path)
	}

	return Descriptor{
		Path:         path,
		ArtifactPath: ArtifactPath(path),
		Expected:     expected,
	}, nil
}
