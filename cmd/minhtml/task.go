package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var htmlExts = map[string]bool{
	".htm":   true,
	".html":  true,
	".shtml": true,
	".xhtml": true,
}

// Task minifies src into dst. An empty src is stdin and an empty dst is stdout.
type Task struct {
	src string
	dst string
}

func (t Task) name() string {
	if t.src == "" {
		return "stdin"
	}
	return t.src
}

// TaskError is a failed task, reported as [name] cause: err.
type TaskError struct {
	Name  string
	Cause string
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Name, e.Cause, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// osFS opens paths as given, relative to the working directory or absolute.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// createTasks returns the tasks for the inputs. A single file is written to output, several
// files and all files found in directories are minified in place.
func createTasks(fsys fs.FS, inputs []string, output string) ([]Task, error) {
	if len(inputs) == 0 {
		return []Task{{"", output}}, nil
	}

	tasks := []Task{}
	for _, input := range inputs {
		input = filepath.Clean(input)
		info, err := fs.Stat(fsys, input)
		if err != nil {
			if len(inputs) == 1 {
				return nil, err
			}
			// reported by the task itself
			tasks = append(tasks, Task{input, input})
			continue
		}

		if info.Mode().IsRegular() {
			tasks = append(tasks, Task{input, input})
		} else if info.IsDir() {
			if !recursive {
				Warning.Println("--recursive not specified, omitting directory", input)
				continue
			}
			err := fs.WalkDir(fsys, input, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				} else if path != input && strings.HasPrefix(d.Name(), ".") {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}
				if d.Type().IsRegular() && htmlExts[strings.ToLower(filepath.Ext(path))] {
					tasks = append(tasks, Task{path, path})
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			return nil, fmt.Errorf("not a file or directory %s", input)
		}
	}

	if len(inputs) == 1 && len(tasks) == 1 && tasks[0].src == filepath.Clean(inputs[0]) {
		tasks[0].dst = output
	}
	return tasks, nil
}
