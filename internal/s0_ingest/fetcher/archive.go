package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// metadataPrefix marks archive entries written by macOS Finder
const metadataPrefix = "__MACOSX/"

var (
	// ErrBadArchive means the payload is not a readable zip archive
	ErrBadArchive = errors.New("malformed archive")
	// ErrNoEntry means the archive holds no CSV entry outside the metadata prefix
	ErrNoEntry = errors.New("archive has no csv entry")
)

// ExtractEntry selects the lexicographically first CSV entry and returns its bytes
func ExtractEntry(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	files := make(map[string]*zip.File)
	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, metadataPrefix) {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		if _, dup := files[f.Name]; dup {
			continue
		}
		files[f.Name] = f
		names = append(names, f.Name)
	}
	if len(names) == 0 {
		return "", nil, ErrNoEntry
	}

	sort.Strings(names)
	name := names[0]

	rc, err := files[name].Open()
	if err != nil {
		return "", nil, fmt.Errorf("%w: open %s: %v", ErrBadArchive, name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read %s: %v", ErrBadArchive, name, err)
	}
	return name, content, nil
}
