// rbdoc generates a TOON-format documentation map of the Ruby methods in a
// repository, with an incremental cache for repeat runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/phobologic/rbdoc/internal/cache"
	"github.com/phobologic/rbdoc/internal/comment"
	"github.com/phobologic/rbdoc/internal/config"
	"github.com/phobologic/rbdoc/internal/discover"
	"github.com/phobologic/rbdoc/internal/extract"
	"github.com/phobologic/rbdoc/internal/filter"
	"github.com/phobologic/rbdoc/internal/index"
	"github.com/phobologic/rbdoc/internal/record"
	"github.com/phobologic/rbdoc/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("rbdoc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		maxNamespaces int
		nameFilter    string
		fileFilter    string
		cachePath     string
		maxFileSize   int
		showVersion   bool
	)

	fs.IntVar(&maxNamespaces, "n", 0, "maximum number of namespaces to include")
	fs.StringVar(&nameFilter, "name", "", "only methods whose name contains this substring")
	fs.StringVar(&fileFilter, "file", "", "only methods defined in files matching this substring")
	fs.StringVar(&cachePath, "cache", "", "cache file path (overrides config)")
	fs.IntVar(&maxFileSize, "max-file-size", 0, "skip files larger than this many bytes (overrides config)")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "rbdoc %s\n", version)
		return nil
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if cachePath == "" && cfg.Cache != "" {
		cachePath = filepath.Join(root, cfg.Cache)
	}
	if maxFileSize <= 0 {
		maxFileSize = cfg.MaxFileSize
	}

	// Discover files
	files, err := discover.Files(root, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no ruby files found")
	}

	// Rebuild from the cache when no source changed since it was written.
	var m *index.Map
	if cachePath != "" && cache.Fresh(cachePath, root, files) {
		m, err = cache.Load(cachePath, root)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: ignoring cache: %v\n", err)
			m = nil
		}
	}

	if m == nil {
		files = filterBySize(root, files, maxFileSize, stderr)
		if len(files) == 0 {
			return errors.New("no ruby files found (all exceeded size limit)")
		}

		seq := record.NewFragmentSeq()
		results := parseFilesConcurrent(root, files, seq, stderr)

		m = index.NewMap(filepath.Base(root), root)
		for _, namespaces := range results {
			m.MergeFile(namespaces)
		}
		if m.MethodCount() == 0 {
			return errors.New("no documented methods found")
		}
		m.Sort()

		if cachePath != "" {
			if err := cache.Save(cachePath, m, comment.NewParser()); err != nil {
				_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
			}
		}
	}

	view := m
	if nameFilter != "" {
		view = filter.ByName(view, nameFilter)
	}
	if fileFilter != "" {
		view = filter.ByFile(view, fileFilter)
	}
	if maxNamespaces > 0 {
		view = filter.SelectNamespaces(view, maxNamespaces)
	}

	_, _ = fmt.Fprintln(stdout, toon.Encode(view))
	return nil
}

func filterBySize(root string, files []string, maxSize int, stderr io.Writer) []string {
	var kept []string
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// parseFilesConcurrent extracts every file on a worker pool and returns the
// per-file namespace lists in the original file order. The fragment
// sequence is shared across workers; it serializes ID assignment itself.
func parseFilesConcurrent(root string, files []string, seq *record.FragmentSeq, stderr io.Writer) [][]*index.Namespace {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	indexed := make([][]*index.Namespace, len(files))

	var wg sync.WaitGroup
	var stderrMu sync.Mutex

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parser := extract.NewParser()

			for idx := range work {
				path := files[idx]
				source, err := os.ReadFile(filepath.Join(root, path))
				if err != nil {
					stderrMu.Lock()
					_, _ = fmt.Fprintf(stderr, "Warning: failed to read %s: %v\n", path, err)
					stderrMu.Unlock()
					continue
				}

				namespaces, err := extract.File(parser, source, path, seq)
				if err != nil {
					stderrMu.Lock()
					_, _ = fmt.Fprintf(stderr, "Warning: failed to parse %s: %v\n", path, err)
					stderrMu.Unlock()
					continue
				}
				indexed[idx] = namespaces
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	return indexed
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-n": true, "--n": true,
	"-name": true, "--name": true,
	"-file": true, "--file": true,
	"-cache": true, "--cache": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
