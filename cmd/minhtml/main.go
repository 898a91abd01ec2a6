package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/djherbis/atime"
	humanize "github.com/dustin/go-humanize"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/minhtml"
)

// Version is the current minhtml version.
var Version = "built from source"

var (
	config             minhtml.Cfg
	quiet              bool
	verbose            int
	jobs               int
	recursive          bool
	watch              bool
	serve              string
	version            bool
	preserve           []string
	preserveMode       bool
	preserveOwnership  bool
	preserveTimestamps bool
)

// Loggers.
var (
	Error   = log.New(io.Discard, "", 0)
	Warning = log.New(io.Discard, "", 0)
	Info    = log.New(io.Discard, "", 0)
)

func main() {
	// os.Exit doesn't execute pending defer calls, this is fixed by encapsulating run()
	os.Exit(run())
}

func run() int {
	var inputs []string
	var output string

	f := argp.New("minhtml")
	f.AddRest(&inputs, "inputs", "Files to minify, leave blank to use stdin. Several files are minified in place in parallel")
	f.AddOpt(&output, "o", "output", nil, "Output file, leave blank to use stdout")
	f.AddOpt(&config.MinifyJS, "", "minify-js", false, "Minify JS in <script> tags that have a JS or no type attribute value")
	f.AddOpt(&config.MinifyCSS, "", "minify-css", false, "Minify CSS in <style> tags and style attributes")
	f.AddOpt(&config.DoNotMinifyDoctype, "", "do-not-minify-doctype", false, "Do not minify DOCTYPEs, minified DOCTYPEs may not be spec compliant")
	f.AddOpt(&config.EnsureSpecCompliantUnquotedAttributeValues, "", "ensure-spec-compliant-unquoted-attribute-values", false, "Ensure unquoted attribute values do not contain characters prohibited by the WHATWG specification")
	f.AddOpt(&config.KeepClosingTags, "", "keep-closing-tags", false, "Do not omit closing tags when possible")
	f.AddOpt(&config.KeepHTMLAndHeadOpeningTags, "", "keep-html-and-head-opening-tags", false, "Do not omit <html> and <head> opening tags when they don't have attributes")
	f.AddOpt(&config.KeepSpacesBetweenAttributes, "", "keep-spaces-between-attributes", false, "Keep spaces between attributes when possible to conform to HTML standards")
	f.AddOpt(&config.KeepComments, "", "keep-comments", false, "Keep all comments")
	f.AddOpt(&config.KeepInputTypeTextAttr, "", "keep-input-type-text-attr", false, "Keep type=text attribute name and value on <input> elements")
	f.AddOpt(&config.KeepSSIComments, "", "keep-ssi-comments", false, "Has no effect, SSI comments are always kept")
	f.AddOpt(&config.PreserveBraceTemplateSyntax, "", "preserve-brace-template-syntax", false, "Pass {{ }}, {# #} and {% %} template syntax through untouched")
	f.AddOpt(&config.PreserveChevronPercentTemplateSyntax, "", "preserve-chevron-percent-template-syntax", false, "Pass <% %> template syntax through untouched")
	f.AddOpt(&config.RemoveBangs, "", "remove-bangs", false, "Remove all bangs")
	f.AddOpt(&config.RemoveProcessingInstructions, "", "remove-processing-instructions", false, "Remove all processing instructions")
	f.AddOpt(&quiet, "q", "quiet", false, "Quiet mode to suppress all output")
	f.AddOpt(argp.Count{I: &verbose}, "v", "verbose", nil, "Verbose mode, prints statistics per file")
	f.AddOpt(&jobs, "j", "jobs", 0, "Number of files minified in parallel, 0 is the number of CPUs")
	f.AddOpt(&recursive, "r", "recursive", false, "Minify HTML files in directories in place")
	f.AddOpt(&preserve, "p", "preserve", nil, "Preserve options of written files (mode, ownership, timestamps, all)")
	f.AddOpt(&watch, "w", "watch", false, "Watch files and minify upon changes")
	f.AddOpt(&serve, "", "serve", nil, "Serve the input directory on the given address (eg. :8080) with HTML minified")
	f.AddOpt(&version, "", "version", false, "Version")
	f.Parse()

	if version {
		if !quiet {
			fmt.Printf("minhtml %s\n", Version)
		}
		return 0
	}

	if !quiet {
		Error = log.New(os.Stderr, "ERROR: ", 0)
		Warning = log.New(os.Stderr, "WARNING: ", 0)
		if 0 < verbose {
			Info = log.New(os.Stderr, "INFO: ", 0)
		}
	}

	inputs, output = stdio(inputs, output)
	if err := checkOptions(inputs, output); err != nil {
		Error.Println(err)
		return 1
	}
	if err := setPreserve(preserve); err != nil {
		Error.Println(err)
		return 1
	}

	if serve != "" {
		root := "."
		if len(inputs) == 1 {
			root = inputs[0]
		}
		Info.Println("serve", root, "on", serve)
		if err := http.ListenAndServe(serve, NewServer(&config, root)); err != nil {
			Error.Println(err)
			return 1
		}
		return 0
	}

	tasks, err := createTasks(osFS{}, inputs, output)
	if err != nil {
		Error.Println(err)
		return 1
	}
	if output != "" && IsDir(output) {
		if len(tasks) != 1 || tasks[0].src == "" {
			Error.Println("output directory requires a single input file")
			return 1
		}
		tasks[0].dst = filepath.Join(output, filepath.Base(tasks[0].src))
	}

	start := time.Now()
	if len(tasks) == 1 && !watch {
		if err := minifyTask(tasks[0]); err != nil {
			Error.Println(err)
			return 1
		}
		return 0
	}

	numWorkers := jobs
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
		if numWorkers < 4 {
			numWorkers = 4
		}
	}

	chanTasks := make(chan Task, 20)
	chanFails := make(chan int, numWorkers)
	for n := 0; n < numWorkers; n++ {
		go minifyWorker(chanTasks, chanFails)
	}

	if !watch {
		for _, task := range tasks {
			chanTasks <- task
		}
	} else if err := watchTasks(tasks, chanTasks); err != nil {
		Error.Println(err)
		close(chanTasks)
		return 1
	}
	close(chanTasks)

	fails := 0
	for n := 0; n < numWorkers; n++ {
		fails += <-chanFails
	}
	if !watch {
		Info.Println("minified", len(tasks)-fails, "of", len(tasks), "files in", time.Since(start))
	}
	return 0
}

// stdio replaces a lone "-" input by stdin and a "-" output by stdout.
func stdio(inputs []string, output string) ([]string, string) {
	if len(inputs) == 1 && inputs[0] == "-" {
		inputs = inputs[:0]
	}
	if output == "-" {
		output = ""
	}
	return inputs, output
}

// checkOptions returns an error for options that cannot be combined.
func checkOptions(inputs []string, output string) error {
	if output != "" && 1 < len(inputs) {
		return errors.New("cannot provide --output when multiple inputs are provided")
	} else if watch && len(inputs) == 0 {
		return errors.New("--watch doesn't work with stdin, specify inputs")
	} else if serve != "" && output != "" {
		return errors.New("--serve cannot be used together with --output")
	} else if serve != "" && (1 < len(inputs) || watch) {
		return errors.New("--serve takes a single directory and cannot be used together with --watch")
	} else if jobs < 0 {
		return fmt.Errorf("invalid number of jobs %d", jobs)
	} else if 0 < len(preserve) && len(inputs) == 0 {
		return errors.New("--preserve cannot be used together with stdin")
	}
	for _, input := range inputs {
		if input == "-" {
			return errors.New("cannot mix files and stdin as input")
		}
	}
	return nil
}

func setPreserve(options []string) error {
	preserveMode, preserveOwnership, preserveTimestamps = false, false, false
	for _, option := range options {
		switch option {
		case "all":
			preserveMode = true
			preserveOwnership = true
			preserveTimestamps = true
		case "mode":
			preserveMode = true
		case "ownership":
			preserveOwnership = true
		case "timestamps":
			preserveTimestamps = true
		default:
			return fmt.Errorf("unknown preserve option %q", option)
		}
	}
	if preserveOwnership && !supportsGetOwnership {
		Warning.Println("preserve ownership not supported on platform")
	}
	return nil
}

func minifyWorker(chanTasks <-chan Task, chanFails chan<- int) {
	fails := 0
	for task := range chanTasks {
		if err := minifyTask(task); err != nil {
			Error.Println(err)
			fails++
		} else if task.src == task.dst && !quiet {
			fmt.Println(task.src)
		}
	}
	chanFails <- fails
}

// watchTasks sends the tasks and then every task whose source changes, until interrupted.
func watchTasks(tasks []Task, chanTasks chan<- Task) error {
	watcher, err := NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	bySrc := map[string]Task{}
	for _, task := range tasks {
		if err := watcher.AddFile(task.src); err != nil {
			return err
		}
		bySrc[task.src] = task
	}
	changes := watcher.Run()

	for _, task := range tasks {
		if task.src == task.dst {
			watcher.IgnoreNext(task.dst)
		}
		chanTasks <- task
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	for changes != nil {
		select {
		case <-c:
			watcher.Close()
		case file, ok := <-changes:
			if !ok {
				changes = nil
				break
			}
			task, ok := bySrc[file]
			if !ok {
				break
			}
			if task.src == task.dst {
				watcher.IgnoreNext(task.dst) // skip change on output
			}
			chanTasks <- task
		}
	}
	return nil
}

func minifyTask(t Task) error {
	var srcInfo os.FileInfo
	if t.src != "" && t.dst != "" && (preserveMode || preserveOwnership || preserveTimestamps) {
		// stat before an in-place write changes the timestamps
		srcInfo, _ = os.Stat(t.src)
	}

	fr, err := openInputFile(t.src)
	if err != nil {
		return &TaskError{t.name(), "could not open source file", err}
	}
	b, err := io.ReadAll(fr)
	fr.Close()
	if err != nil {
		return &TaskError{t.name(), "could not load source code", err}
	}

	startTime := time.Now()
	out := minhtml.Minify(b, &config)
	dur := time.Since(startTime)

	fw, err := openOutputFile(t.dst)
	if err != nil {
		return &TaskError{t.name(), "could not open output file", err}
	}
	_, err = fw.Write(out)
	if cerr := fw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &TaskError{t.name(), "could not save minified code", err}
	}

	if srcInfo != nil {
		preserveAttributes(srcInfo, t.dst)
	}
	Info.Println(stats(dur, len(b), len(out)), "-", t.name())
	return nil
}

func stats(dur time.Duration, rLen, wLen int) string {
	speed := "Inf MB"
	if 0 < dur {
		speed = humanize.Bytes(uint64(float64(rLen) / dur.Seconds()))
	}
	ratio := 1.0
	if 0 < rLen {
		ratio = float64(wLen) / float64(rLen)
	}
	return fmt.Sprintf("(%9v, %6v, %6v, %5.1f%%, %6v/s)", dur, humanize.Bytes(uint64(rLen)), humanize.Bytes(uint64(wLen)), ratio*100, speed)
}

func preserveAttributes(srcInfo os.FileInfo, dst string) {
	if preserveMode {
		if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
			Warning.Println(err)
		}
	}
	if preserveOwnership {
		if uid, gid, ok := getOwnership(srcInfo); ok {
			if err := os.Chown(dst, uid, gid); err != nil {
				Warning.Println(err)
			}
		}
	}
	if preserveTimestamps {
		if err := os.Chtimes(dst, atime.Get(srcInfo), srcInfo.ModTime()); err != nil {
			Warning.Println(err)
		}
	}
}
