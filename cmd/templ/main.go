package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-templ/pkg/templ"
)

const version = "0.1.0"

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "templ:", err)
		os.Exit(1)
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "go-templ - placeholder template engine for DOCX files")
	fmt.Fprintln(out, "\nUsage: templ <command> [arguments]")
	fmt.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "  build -job <job.hcl>                          Build the job described by an HCL file")
	fmt.Fprintln(out, "  build <template> -o <out> [-model <data.json>] Build a template from a JSON model")
	fmt.Fprintln(out, "  version                                       Show version information")
}

var errUsage = errors.New("invalid arguments")

func run(out io.Writer, args []string) error {
	if len(args) == 0 {
		usage(out)
		return errUsage
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(out, "go-templ version %s\n", version)
		return nil
	case "build":
		return runBuild(out, args[1:])
	case "help", "-h", "--help":
		usage(out)
		return nil
	}
	usage(out)
	return fmt.Errorf("unknown command: %s", args[0])
}

func runBuild(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(out)
	jobPath := fs.String("job", "", "HCL job file")
	output := fs.String("o", "", "output document")
	modelPath := fs.String("model", "", "JSON model file")
	debugPath := fs.String("debug", "", "write a debug archive to this path")
	verbose := fs.Bool("v", false, "log module statistics")

	// flags may follow the template argument
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	var j *job
	switch {
	case *jobPath != "":
		if len(positional) > 0 {
			return fmt.Errorf("-job takes no template argument: %w", errUsage)
		}
		var err error
		if j, err = decodeJob(*jobPath); err != nil {
			return err
		}
	case len(positional) == 1:
		if *output == "" {
			return fmt.Errorf("missing -o: %w", errUsage)
		}
		j = &job{Template: positional[0], Output: *output, Model: make(map[string]any)}
		if *modelPath != "" {
			if err := loadJSONModel(*modelPath, j.Model); err != nil {
				return err
			}
		}
	default:
		usage(out)
		return errUsage
	}
	if *debugPath != "" {
		j.Debug = *debugPath
	}

	level := templ.LogInfo
	if *verbose {
		level = templ.LogDebug
	}
	return build(j, templ.NewLogger(os.Stderr, level), out)
}

func build(j *job, logger *templ.Logger, out io.Writer) error {
	engine := templ.NewWithOptions(templ.WithCache(0), templ.WithEngineLogger(logger))
	defer engine.Close()

	doc, err := engine.LoadFile(j.Template)
	if err != nil {
		return err
	}
	var opts []templ.BuilderOption
	var debugger *templ.Debugger
	if j.Debug != "" {
		debugger = templ.NewDebugger()
		opts = append(opts, templ.WithDebugger(debugger))
	}
	b, err := engine.NewBuilder(opts...)
	if err != nil {
		return err
	}

	_, buildErr := b.Build(doc, j.Model)
	if debugger != nil {
		// the archive shows how far a failed build got
		if err := debugger.SaveAs(j.Debug); err != nil {
			return err
		}
	}
	if buildErr != nil {
		return buildErr
	}
	if err := doc.SaveAs(j.Output); err != nil {
		return err
	}
	logger.WithField("template", j.Template).Info("wrote %s", j.Output)
	fmt.Fprintln(out, j.Output)
	return nil
}
