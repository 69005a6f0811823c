package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/contract"
	"github.com/reoring/csvskema/csv"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("csvskema: ")
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "validate":
		return validateCmd(ctx, args[1:], stdout, stderr)
	case "convert":
		return convertCmd(ctx, args[1:], stdout, stderr)
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	}
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "csvskema CLI\n\nUsage:\n  csvskema validate -contract c.yaml [-fail-fast] [-j N] [-v] file.csv...\n  csvskema convert -contract c.yaml -in file.csv\n  csvskema schema -contract c.yaml\n\nNotes:\n  - validate prints one JSON line per issue and exits 1 when any row is invalid.")
}

// issueLine is the JSON-lines shape printed by validate.
type issueLine struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func validateCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var contractPath string
	var failFast, verbose bool
	var jobs int
	fs.StringVar(&contractPath, "contract", "", "contract file (.yaml, .yml or .json)")
	fs.BoolVar(&failFast, "fail-fast", false, "stop each file at its first invalid row")
	fs.IntVar(&jobs, "j", 4, "number of files validated concurrently")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if contractPath == "" || fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	logger := log.New(stderr, "csvskema: ", 0)
	logf := func(format string, a ...any) {
		if verbose {
			logger.Printf(format, a...)
		}
	}

	c, m, d, err := loadContract(contractPath, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	logf("validate: contract=%s fields=%v files=%d", contractPath, m.FieldNames(), fs.NArg())

	// A file that cannot be read does not stop the others; its error is
	// reported after every collected issue has been printed.
	type fileResult struct {
		issues []issueLine
		err    error
	}
	files := fs.Args()
	results := make([]fileResult, len(files))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	vctx := csvskema.WithFailFast(ctx, failFast)
	for i, path := range files {
		g.Go(func() error {
			out, rows, err := validateFile(vctx, path, m, c.RestKey, d, failFast)
			logf("validate: %s rows=%d issues=%d", path, rows, len(out))
			results[i] = fileResult{issues: out, err: err}
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(stdout)
	failed := false
	for i, res := range results {
		for _, l := range res.issues {
			failed = true
			if err := enc.Encode(l); err != nil {
				logger.Print(err)
				return 1
			}
		}
		if res.err != nil {
			failed = true
			logger.Printf("%s: %v", files[i], res.err)
		}
	}
	if failed {
		return 1
	}
	return 0
}

// validateFile collects the issues of every row in path. Tokenizer and I/O
// errors abort the file and are returned with the issues found so far.
func validateFile(ctx context.Context, path string, m csvskema.Model[map[string]any], restKey string, d csv.Dialect, failFast bool) ([]issueLine, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewDictReader(f, m, csv.DictOptions{RestKey: restKey, Dialect: d})
	var out []issueLine
	rows := 0
	for {
		_, err := r.ReadRecord(ctx)
		if err == io.EOF {
			return out, rows, nil
		}
		iss, ok := csvskema.AsIssues(err)
		if err != nil && !ok {
			return out, rows, err
		}
		rows++
		for _, it := range iss {
			out = append(out, issueLine{File: path, Line: it.Line, Path: it.Path, Code: it.Code, Message: it.Message, Value: it.Value})
		}
		if len(iss) > 0 && failFast {
			return out, rows, nil
		}
	}
}

func convertCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var contractPath, in string
	fs.StringVar(&contractPath, "contract", "", "contract file (.yaml, .yml or .json)")
	fs.StringVar(&in, "in", "", "input CSV file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if contractPath == "" || in == "" {
		fs.Usage()
		return 2
	}
	logger := log.New(stderr, "csvskema: ", 0)

	c, m, d, err := loadContract(contractPath, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	f, err := os.Open(in)
	if err != nil {
		logger.Print(err)
		return 1
	}
	defer f.Close()

	enc := json.NewEncoder(stdout)
	r := csv.NewDictReader(f, m, csv.DictOptions{RestKey: c.RestKey, Dialect: d})
	for row, err := range r.All(ctx) {
		if err != nil {
			logger.Printf("%s: %v", in, err)
			return 1
		}
		if err := enc.Encode(row); err != nil {
			logger.Print(err)
			return 1
		}
	}
	return 0
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var contractPath string
	fs.StringVar(&contractPath, "contract", "", "contract file (.yaml, .yml or .json)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if contractPath == "" {
		fs.Usage()
		return 2
	}
	logger := log.New(stderr, "csvskema: ", 0)

	_, m, _, err := loadContract(contractPath, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	s, err := m.JSONSchema()
	if err != nil {
		logger.Print(err)
		return 1
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		logger.Print(err)
		return 1
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}

func loadContract(path string, logger *log.Logger) (*contract.Contract, csvskema.Model[map[string]any], csv.Dialect, error) {
	c, err := contract.LoadFile(path)
	if err != nil {
		return nil, nil, csv.Dialect{}, err
	}
	m, diag, err := contract.Compile(c)
	if err != nil {
		return nil, nil, csv.Dialect{}, err
	}
	for _, w := range diag.Warnings() {
		logger.Printf("warning: %s", w)
	}
	d, err := c.CSVDialect()
	if err != nil {
		return nil, nil, csv.Dialect{}, err
	}
	return c, m, d, nil
}
