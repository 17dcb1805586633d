package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phobologic/rbdoc/internal/config"
)

// runInit implements the `rbdoc init` subcommand, which writes a starter
// .rbdoc.yml into a repository.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rbdoc init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		dryRun bool
		force  bool
	)
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	fs.BoolVar(&force, "force", false, "overwrite an existing config file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: rbdoc init [flags] [repo-root]

Write a starter %s to a repository root. Refuses to overwrite an existing
config unless -force is given.

repo-root defaults to the current directory.

Flags:
`, config.FileName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	content := starterConfig()

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	path := filepath.Join(root, config.FileName)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}

// starterConfig returns the default config file contents, with every knob
// present and commented.
func starterConfig() string {
	return `# rbdoc configuration. Flags override these settings.

# Skip source files larger than this many bytes.
max_file_size: 1000000

# Cache file path, relative to the repository root. Add it to .gitignore.
cache: .rbdoc-cache

# Gitignore-style patterns excluded from discovery.
exclude:
  - spec/
  - test/
`
}
