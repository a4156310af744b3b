// Package main provides isogen, the capability generator.
//
// isogen reads isomorphism declarations from //isomorphic: source directives
// and an optional YAML file, then writes one Go file per package holding the
// ref, mut and transmute capabilities they declare. It is meant to run from
// go:generate:
//
//	//go:generate go run isomorphic/cmd/isogen .
//	//go:generate go run isomorphic/cmd/isogen --config iso.yaml .
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/trim21/errgo"

	"isomorphic/internal/analyze"
	"isomorphic/internal/common"
	"isomorphic/internal/config"
	"isomorphic/internal/diagnostic"
	"isomorphic/internal/gen"
	"isomorphic/internal/plan"
)

type options struct {
	dir        string
	config     string
	output     string
	pkgName    string
	style      string
	assertSize bool
	dryRun     bool
	verbose    bool
	patterns   []string
	changed    func(name string) bool
}

func parseFlags(args []string) (*options, error) {
	var opts options

	fs := pflag.NewFlagSet("isogen", pflag.ContinueOnError)
	fs.StringVarP(&opts.dir, "dir", "C", "", "run as if isogen was started in this directory")
	fs.StringVarP(&opts.config, "config", "c", "", "YAML declaration file")
	fs.StringVarP(&opts.output, "output", "o", "", "generated file name (default "+config.DefaultOutput+")")
	fs.StringVar(&opts.pkgName, "package", "", "package clause of the generated file (default: the loaded package)")
	fs.StringVar(&opts.style, "style", "", "emit ref/mut capabilities as functions or methods")
	fs.BoolVar(&opts.assertSize, "assert-size", false, "emit compile-time size guards for concrete pairs")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the generated code instead of writing it")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every resolved capability")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: isogen [flags] [packages]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.patterns = fs.Args()
	if len(opts.patterns) == 0 {
		opts.patterns = []string{"."}
	}

	opts.changed = fs.Changed

	return &opts, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}

	if err != nil {
		os.Exit(2)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}
}

// loadConfig reads the declaration file and applies flag overrides.
func loadConfig(opts *options) (*config.File, error) {
	f := config.Default()

	if opts.config != "" {
		path := opts.config
		if opts.dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(opts.dir, path)
		}

		var err error

		f, err = config.LoadFile(path)
		if err != nil {
			return nil, errgo.Wrap(err, "failed to load declaration file")
		}
	}

	if opts.output != "" {
		f.Output = opts.output
	}

	if opts.pkgName != "" {
		f.Package = opts.pkgName
	}

	if opts.style != "" {
		f.Style = config.Style(opts.style)
		if !f.Style.IsValid() {
			return nil, fmt.Errorf("invalid --style %q", opts.style)
		}
	}

	if opts.changed != nil && opts.changed("assert-size") {
		f.AssertSize = opts.assertSize
	}

	return f, nil
}

func run(opts *options, stdout io.Writer) error {
	f, err := loadConfig(opts)
	if err != nil {
		return err
	}

	fileDecls, err := f.Declarations()
	if err != nil {
		return errgo.Wrap(err, "bad declaration file")
	}

	analyzer := analyze.NewAnalyzer().WithDir(opts.dir)
	if err := analyzer.ExcludeOutput(f.Output, opts.patterns...); err != nil {
		return errgo.Wrap(err, "failed to locate previous output")
	}

	graph, err := analyzer.LoadPackages(opts.patterns...)
	if err != nil {
		return errgo.Wrap(err, "failed to load packages")
	}

	pkgs := graph.All()
	if !common.IsEmpty(fileDecls) && common.IsMultiple(pkgs) {
		return fmt.Errorf("declaration file %s applies to one package, but %d were loaded", f.Path(), len(pkgs))
	}

	failed := 0

	for _, pkg := range pkgs {
		logger := log.With().Str("package", pkg.Path).Logger()

		for _, e := range pkg.TypeErrors {
			logger.Debug().Str("error", e).Msg("type error tolerated")
		}

		decls := slices.Clone(fileDecls)

		var bad diagnostic.Diagnostics
		for _, d := range pkg.Directives {
			parsed, err := d.Declaration()
			if err != nil {
				bad.AddError("bad_directive", err.Error(), "", d.Origin())
				continue
			}

			decls = append(decls, parsed)
		}

		if len(decls) == 0 && bad.IsValid() {
			logger.Debug().Msg("no declarations")

			if err := removeStale(pkg.Dir, f.Output, opts, logger); err != nil {
				return err
			}

			continue
		}

		p, err := plan.NewResolver(pkg, decls, plan.ConfigFromFile(f)).WithLogger(logger).Resolve()
		if err != nil {
			return errgo.Wrap(err, "failed to plan "+pkg.Path)
		}

		p.Diagnostics.Merge(bad)
		report(logger, p.Diagnostics)

		if p.Diagnostics.HasErrors() {
			failed++
			continue
		}

		if err := emit(p, opts, stdout, logger); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d package(s) have declaration errors", failed)
	}

	return nil
}

// emit generates the file of one package and writes it next to the package
// sources, or to stdout for --dry-run.
func emit(p *plan.ResolvedPlan, opts *options, stdout io.Writer, logger zerolog.Logger) error {
	dir := p.Dir
	if dir == "" {
		dir = opts.dir
	}

	cfg := gen.DefaultGeneratorConfig()
	if !opts.dryRun {
		cfg.OutputDir = dir
	}

	files, err := gen.NewGenerator(cfg).Generate(p)
	if err != nil {
		return errgo.Wrap(err, "failed to generate "+p.PkgPath)
	}

	if opts.dryRun {
		for _, file := range files {
			if _, err := stdout.Write(file.Content); err != nil {
				return errgo.Wrap(err, "failed to write output")
			}
		}

		return nil
	}

	changed, err := gen.WriteFiles(files, dir)
	if err != nil {
		return errgo.Wrap(err, "failed to write generated files")
	}

	for _, name := range changed {
		logger.Info().Str("file", filepath.Join(dir, name)).Int("capabilities", len(p.Impls)).Msg("generated")
	}

	return nil
}

// removeStale deletes the output left behind by a package that no longer
// declares anything.
func removeStale(dir, output string, opts *options, logger zerolog.Logger) error {
	if dir == "" {
		dir = opts.dir
	}

	if opts.dryRun {
		return nil
	}

	removed, err := gen.RemoveStale(dir, output)
	if err != nil {
		return errgo.Wrap(err, "failed to remove stale output")
	}

	if removed {
		logger.Info().Str("file", filepath.Join(dir, output)).Msg("removed output of a package without declarations")
	}

	return nil
}

// report logs diagnostics by severity. Infos only show with --verbose.
func report(logger zerolog.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		var ev *zerolog.Event

		switch d.Severity {
		case diagnostic.DiagnosticError:
			ev = logger.Error()
		case diagnostic.DiagnosticWarning:
			ev = logger.Warn()
		default:
			ev = logger.Debug()
		}

		ev.Str("code", d.Code).
			Str("origin", d.Origin).
			Str("impl", d.Impl).
			Msg(d.Message)
	}
}
