package sources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourusername/wildsub/internal/types"
)

// maxLineBytes bounds a single wordlist line
const maxLineBytes = 1024 * 1024

// LoadWordlist reads candidate labels from path. Failures wrap types.ErrLoad.
func LoadWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrLoad, err)
	}
	defer f.Close()

	words, err := ReadWordlist(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrLoad, path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s contains no candidates", types.ErrLoad, path)
	}

	return words, nil
}

// ReadWordlist returns the trimmed, non-blank lines of r in order.
// Lines starting with '#' are comments.
func ReadWordlist(r io.Reader) ([]string, error) {
	var words []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	return words, sc.Err()
}
