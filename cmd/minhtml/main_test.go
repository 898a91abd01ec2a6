package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/tdewolff/minhtml"
	"github.com/tdewolff/test"
)

func TestCreateTasks(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html":         {},
		"dir/b.html":     {},
		"dir/c.css":      {},
		"dir/sub/d.HTM":  {},
		"dir/.git/e.htm": {},
	}

	tests := []struct {
		inputs []string
		output string
		tasks  map[string]string
	}{
		{nil, "", map[string]string{"": ""}},
		{nil, "out.html", map[string]string{"": "out.html"}},
		{[]string{"a.html"}, "", map[string]string{"a.html": ""}},
		{[]string{"a.html"}, "out.html", map[string]string{"a.html": "out.html"}},
		{[]string{"./dir/b.html"}, "", map[string]string{"dir/b.html": ""}},
		{[]string{"a.html", "dir/b.html"}, "", map[string]string{"a.html": "a.html", "dir/b.html": "dir/b.html"}},
		{[]string{"a.html", "missing.html"}, "", map[string]string{"a.html": "a.html", "missing.html": "missing.html"}},
		{[]string{"dir"}, "", map[string]string{"dir/b.html": "dir/b.html", "dir/sub/d.HTM": "dir/sub/d.HTM"}},
	}

	recursive = true
	defer func() { recursive = false }()
	for _, tt := range tests {
		t.Run(strings.Join(tt.inputs, ",")+" => "+tt.output, func(t *testing.T) {
			tasks, err := createTasks(fsys, tt.inputs, tt.output)
			test.Error(t, err)
			if len(tasks) != len(tt.tasks) {
				test.Fail(t, fmt.Sprintf("missing %v in %v", tt.tasks, tasks))
			}
			for _, task := range tasks {
				if dst, ok := tt.tasks[task.src]; !ok || dst != task.dst {
					test.Fail(t, fmt.Sprintf("unexpected %s => %s", task.src, task.dst))
				}
			}
		})
	}

	_, err := createTasks(fsys, []string{"missing.html"}, "")
	test.That(t, errors.Is(err, fs.ErrNotExist), "single missing input")
}

func TestCreateTasksNotRecursive(t *testing.T) {
	fsys := fstest.MapFS{"dir/b.html": {}}
	tasks, err := createTasks(fsys, []string{"dir"}, "")
	test.Error(t, err)
	test.T(t, len(tasks), 0)
}

func TestCheckOptions(t *testing.T) {
	tests := []struct {
		inputs []string
		output string
		watch  bool
		serve  string
		err    bool
	}{
		{nil, "", false, "", false},
		{[]string{"a.html"}, "out.html", false, "", false},
		{[]string{"a.html", "b.html"}, "", false, "", false},
		{[]string{"a.html", "b.html"}, "out.html", false, "", true},
		{nil, "", true, "", true},
		{[]string{"a.html"}, "", true, "", false},
		{[]string{"www"}, "", false, ":8080", false},
		{[]string{"www"}, "out.html", false, ":8080", true},
		{[]string{"a.html", "-"}, "", false, "", true},
	}
	defer func() { watch, serve = false, "" }()
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.inputs, tt.output, tt.watch, tt.serve), func(t *testing.T) {
			watch, serve = tt.watch, tt.serve
			err := checkOptions(tt.inputs, tt.output)
			test.T(t, err != nil, tt.err, err)
		})
	}
}

func TestSetPreserve(t *testing.T) {
	defer setPreserve(nil)
	test.Error(t, setPreserve([]string{"mode", "timestamps"}))
	test.That(t, preserveMode && preserveTimestamps && !preserveOwnership)
	test.Error(t, setPreserve([]string{"all"}))
	test.That(t, preserveMode && preserveTimestamps && preserveOwnership)
	test.That(t, setPreserve([]string{"links"}) != nil, "unknown option")
}

func TestMinifyTask(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.html")
	dst := filepath.Join(dir, "out", "a.html")
	test.Error(t, os.WriteFile(src, []byte(`<ul> <li> a </li> </ul>`), 0644))

	test.Error(t, minifyTask(Task{src, dst}))
	b, err := os.ReadFile(dst)
	test.Error(t, err)
	test.String(t, string(b), `<ul><li>a</ul>`)

	// in place
	test.Error(t, minifyTask(Task{src, src}))
	b, err = os.ReadFile(src)
	test.Error(t, err)
	test.String(t, string(b), `<ul><li>a</ul>`)

	missing := filepath.Join(dir, "missing.html")
	err = minifyTask(Task{missing, missing})
	var taskErr *TaskError
	test.That(t, errors.As(err, &taskErr), "must be a task error")
	test.String(t, taskErr.Cause, "could not open source file")
	test.That(t, strings.HasPrefix(err.Error(), "["+missing+"] could not open source file: "), err)
	test.That(t, errors.Is(err, fs.ErrNotExist))
}

func TestMinifyTaskPreserve(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.html")
	test.Error(t, os.WriteFile(src, []byte(`<p> a </p>`), 0640))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	test.Error(t, os.Chtimes(src, mtime, mtime))

	test.Error(t, setPreserve([]string{"mode", "timestamps"}))
	defer setPreserve(nil)
	test.Error(t, minifyTask(Task{src, src}))

	info, err := os.Stat(src)
	test.Error(t, err)
	test.That(t, info.ModTime().Equal(mtime), "modification time must be kept")
}

func TestBatchIsolation(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.html")
	test.Error(t, os.WriteFile(a, []byte(`<p>  a  </p>`), 0644))

	quiet = true
	defer func() { quiet = false }()

	chanTasks := make(chan Task, 2)
	chanFails := make(chan int, 1)
	chanTasks <- Task{b, b}
	chanTasks <- Task{a, a}
	close(chanTasks)
	minifyWorker(chanTasks, chanFails)
	test.T(t, <-chanFails, 1)

	out, err := os.ReadFile(a)
	test.Error(t, err)
	test.String(t, string(out), `<p>a</p>`)
}

func TestServer(t *testing.T) {
	dir := t.TempDir()
	test.Error(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<div> <p> a </p> </div>`), 0644))
	srv := httptest.NewServer(NewServer(&minhtml.Cfg{}, dir))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	test.Error(t, err)
	res.Body.Close()
	test.T(t, res.StatusCode, http.StatusOK)

	res, err = http.Post(srv.URL+"/minify", "text/html", strings.NewReader(`<ul> <li> a </li> <li> b </li> </ul>`))
	test.Error(t, err)
	body := readBody(t, res)
	test.T(t, res.StatusCode, http.StatusOK)
	test.String(t, body, `<ul><li>a<li>b</ul>`)

	res, err = http.Get(srv.URL + "/index.html")
	test.Error(t, err)
	body = readBody(t, res)
	test.T(t, res.StatusCode, http.StatusOK)
	test.String(t, body, `<div><p>a</p></div>`)
}

func readBody(t *testing.T, res *http.Response) string {
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	test.Error(t, err)
	return string(b)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.html")
	test.Error(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name string
		dir  string
		is   bool
	}{
		{"Directory", dir, true},
		{"TrailingSeparator", "out" + string(os.PathSeparator), true},
		{"File", file, false},
		{"Missing", filepath.Join(dir, "missing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.T(t, IsDir(tt.dir), tt.is)
		})
	}
}

func TestWatcherIgnoreNext(t *testing.T) {
	w := &Watcher{ignore: map[string]bool{}}
	w.IgnoreNext("dir/../a.html")
	test.That(t, w.ignored("a.html"), "first write is ignored")
	test.That(t, !w.ignored("a.html"), "second write is not ignored")
}

func TestStats(t *testing.T) {
	s := stats(time.Second, 1000, 500)
	test.That(t, strings.Contains(s, "1.0 kB"), s)
	test.That(t, strings.Contains(s, "500 B"), s)
	test.That(t, strings.Contains(s, " 50.0%"), s)
	test.That(t, strings.HasSuffix(s, "1.0 kB/s)"), s)
}

func TestStdio(t *testing.T) {
	tests := []struct {
		inputs  []string
		output  string
		nInputs int
		wanted  string
	}{
		{[]string{"-"}, "", 0, ""},
		{[]string{"-"}, "-", 0, ""},
		{[]string{"a.html"}, "-", 1, ""},
		{[]string{"a.html"}, "out.html", 1, "out.html"},
		{nil, "-", 0, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.inputs, tt.output), func(t *testing.T) {
			inputs, output := stdio(tt.inputs, tt.output)
			test.T(t, len(inputs), tt.nInputs)
			test.String(t, output, tt.wanted)
		})
	}
}
