package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// LoadOffset reads the seek file. A missing artifact, or one holding
// nothing or zero, means "scan from start". Any other read or parse
// failure is an error, never a silent zero.
func LoadOffset(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read seek file: %w", err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, nil
	}
	off, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt seek file %s: %w", path, err)
	}
	if off < 0 {
		return 0, fmt.Errorf("corrupt seek file %s: negative offset %d", path, off)
	}
	return off, nil
}

// SaveOffset overwrites the seek file with the new offset as plain
// decimal text.
func SaveOffset(path string, offset int64) error {
	if err := os.WriteFile(path, []byte(strconv.FormatInt(offset, 10)+"\n"), 0644); err != nil {
		return fmt.Errorf("write seek file: %w", err)
	}
	return nil
}
