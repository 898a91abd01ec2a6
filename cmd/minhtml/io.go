package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matryer/try"
)

// IsDir returns true if the passed string looks like it specifies a directory, false otherwise.
func IsDir(dir string) bool {
	if 0 < len(dir) && dir[len(dir)-1] == os.PathSeparator {
		return true
	}
	info, err := os.Lstat(dir)
	return err == nil && info.Mode().IsDir() && info.Mode()&os.ModeSymlink == 0
}

func openInputFile(input string) (io.ReadCloser, error) {
	if input == "" {
		return io.NopCloser(os.Stdin), nil
	}

	var r *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		r, ferr = os.Open(input)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("open input file %q: %w", input, err)
	}
	return r, nil
}

func openOutputFile(output string) (io.WriteCloser, error) {
	if output == "" {
		return nopWriteCloser{os.Stdout}, nil
	}

	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fmt.Errorf("creating directory %q: %w", dir, err)
	}

	var w *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		w, ferr = os.OpenFile(output, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0666)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("open output file %q: %w", output, err)
	}
	return w, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
