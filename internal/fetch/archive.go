// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ExtractFile reads the named members out of a gzip-compressed tarball.
func ExtractFile(path string, names ...string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Extract(f, names...)
}

// Extract reads the named members out of a gzip-compressed tar stream. Every
// name must be present.
func Extract(r io.Reader, names ...string) (map[string][]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer func() { _ = zr.Close() }()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	out := make(map[string][]byte, len(names))
	tr := tar.NewReader(zr)
	for len(out) < len(wanted) {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		if hdr.Typeflag != tar.TypeReg || !wanted[name] {
			continue
		}
		data, err := readLimited(tr, maxMemberSize, name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}

	var missing []string
	for _, n := range names {
		if _, ok := out[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("archive is missing %s", strings.Join(missing, ", "))
	}
	return out, nil
}
