package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/reusedev/draw-cli/internal/consts"
)

// Resolve returns the prompts for a run. In bulk mode arg is a file path with
// one prompt per line; otherwise arg is the prompt itself.
func Resolve(arg string, bulk bool) ([]string, error) {
	if !bulk {
		return []string{arg}, nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines skips blank lines and lines whose first non-space character is '#'.
func ReadLines(r io.Reader) ([]string, error) {
	var ret []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		ret = append(ret, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Apply returns the text sent to the backend.
func Apply(p string, enhancement bool) string {
	if enhancement {
		return p
	}
	return consts.NoEnhancementPrefix + p
}

// Short keeps the first n characters of p, counted in runes.
func Short(p string, n int) string {
	r := []rune(p)
	if len(r) <= n {
		return p
	}
	return string(r[:n])
}
