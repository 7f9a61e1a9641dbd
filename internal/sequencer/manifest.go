package sequencer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"LaneLabeller/internal/imagefile"
)

// ReadManifest reads the image list at path. Relative entries are resolved
// against the manifest's directory.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	images, err := ParseManifest(f, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return images, nil
}

// ParseManifest reads one image path per line. Blank lines and lines
// starting with # are skipped. Lines containing glob characters are
// expanded (** matches across directories); matches that are not images
// are dropped and the rest sorted.
func ParseManifest(r io.Reader, baseDir string) ([]string, error) {
	var images []string
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) && baseDir != "" {
			line = filepath.Join(baseDir, line)
		}

		if !isPattern(line) {
			images = append(images, line)
			continue
		}
		matches, err := doublestar.FilepathGlob(line, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("line %d: pattern matching failed: %w", lineNo, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if imagefile.IsImageFile(m) {
				images = append(images, m)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
