// Command scanbytes scans a file for separator bytes and writes their offsets.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/csvquery/scanbytes"
	"github.com/csvquery/scanbytes/internal/common"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2026-10-18"
)

// defaultAttempts is the number of scans timed by the bench command.
const defaultAttempts = 10

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "scan", "s":
		err = runScan(args, os.Stdout)
	case "bench", "bs":
		err = runBench(args, os.Stderr)
	case "verify", "v":
		err = runVerify(args, os.Stderr)
	case "backends":
		printBackends(os.Stdout)
	case "version":
		fmt.Printf("scanbytes v%s (%s)\n", Version, BuildDate)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scanbytes - find separator byte offsets in a file

Usage:
    scanbytes <command> [arguments]

Commands:
    scan      Write the offsets of every separator as native-endian uint64s
    bench     Time repeated scans and report mean and standard deviation
    verify    Check an offsets dump against a brute-force scan
    backends  List backends and the generic backend of this host
    version   Show version
    help      Show this help

Use "scanbytes <command> -h" for command-specific options.`)
}

func printBackends(w io.Writer) {
	for _, b := range scanbytes.Backends() {
		fmt.Fprintln(w, b)
	}
	fmt.Fprintf(w, "\ngeneric: %s\n", scanbytes.Generic())
}

// commonFlags holds the flags every scanning command shares.
type commonFlags struct {
	file     *string
	backend  *string
	alphabet *string
	workers  *int
	verbose  *bool
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		file:     fs.String("file", "", "File to scan"),
		backend:  fs.String("backend", "auto", "Detector backend, as listed by the backends command"),
		alphabet: fs.String("alphabet", `\n`, "Separator bytes; Go escapes such as \\n, \\t and \\x2c are understood"),
		workers:  fs.Int("workers", runtime.NumCPU(), "Number of parallel workers"),
		verbose:  fs.Bool("verbose", false, "Enable debug logging"),
	}
}

// setup holds what the flags resolve to, checked before the file is touched.
type setup struct {
	backend scanbytes.Backend
	seps    []byte
	opts    []scanbytes.Option
}

func (c commonFlags) resolve(fs *flag.FlagSet) (*setup, error) {
	if *c.file == "" {
		fs.Usage()
		return nil, errors.New("-file is required")
	}

	b := scanbytes.ParseBackend(*c.backend)
	if b == scanbytes.Unknown {
		return nil, fmt.Errorf("%w: %s", scanbytes.ErrUnknownBackend, *c.backend)
	}

	seps, err := parseAlphabet(*c.alphabet)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if *c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &setup{
		backend: b,
		seps:    seps,
		opts: []scanbytes.Option{
			scanbytes.WithWorkers(*c.workers),
			scanbytes.WithLogger(logger),
		},
	}, nil
}

// parseAlphabet interprets escapes in s and drops repeated bytes, keeping
// first occurrences in order.
func parseAlphabet(s string) ([]byte, error) {
	raw := s
	if unquoted, err := strconv.Unquote(`"` + s + `"`); err == nil {
		raw = unquoted
	}
	if raw == "" {
		return nil, scanbytes.ErrEmptySeparators
	}

	var seen [256]bool
	seps := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !seen[c] {
			seen[c] = true
			seps = append(seps, c)
		}
	}
	return seps, nil
}

// runScan handles the scan command
func runScan(args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	cf := registerCommon(fs)
	codecName := fs.String("codec", "none", "Output framing: none, lz4 or zstd")
	output := fs.String("output", "", "Write offsets to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	codec, err := scanbytes.ParseCodec(*codecName)
	if err != nil {
		return err
	}
	if _, err := scanbytes.Resolve(st.backend, st.seps); err != nil {
		return err
	}

	m, err := common.Open(*cf.file)
	if err != nil {
		return err
	}
	defer m.Close()

	blocks, err := scanbytes.Scan(m.Bytes(), st.seps, st.backend, st.opts...)
	if err != nil {
		return err
	}

	out := stdout
	if *output != "" {
		f, cerr := os.Create(*output)
		if cerr != nil {
			return fmt.Errorf("failed to create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	w := bufio.NewWriterSize(out, 1<<20)
	if _, err := scanbytes.Dump(w, blocks, codec); err != nil {
		return err
	}
	return w.Flush()
}

// runBench handles the bench command
func runBench(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	cf := registerCommon(fs)
	attempts := fs.Int("attempts", defaultAttempts, "Number of timed scans")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := cf.resolve(fs)
	if err != nil {
		return err
	}
	if *attempts < 1 {
		return fmt.Errorf("-attempts must be positive, got %d", *attempts)
	}

	b := st.backend
	if b == scanbytes.Auto {
		b = scanbytes.GenericFor(st.seps)
	}
	if _, err := scanbytes.Resolve(b, st.seps); err != nil {
		return err
	}

	m, err := common.Open(*cf.file)
	if err != nil {
		return err
	}
	defer m.Close()

	samples, err := scanbytes.Benchmark(b, m.Bytes(), st.seps, *attempts, st.opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%s: %s\n", b, scanbytes.Summarize(samples))
	return nil
}

// runVerify handles the verify command
func runVerify(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	file := fs.String("file", "", "File the offsets were taken from")
	alphabet := fs.String("alphabet", `\n`, "Separator bytes; Go escapes such as \\n, \\t and \\x2c are understood")
	offsetsPath := fs.String("offsets", "", "Offsets dump produced by the scan command")
	codecName := fs.String("codec", "none", "Framing of the dump: none, lz4 or zstd")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		fs.Usage()
		return errors.New("-file is required")
	}
	if *offsetsPath == "" {
		return errors.New("-offsets is required")
	}
	seps, err := parseAlphabet(*alphabet)
	if err != nil {
		return err
	}
	codec, err := scanbytes.ParseCodec(*codecName)
	if err != nil {
		return err
	}

	dump, err := os.Open(*offsetsPath)
	if err != nil {
		return fmt.Errorf("failed to open offsets: %w", err)
	}
	defer dump.Close()

	offsets, err := scanbytes.ReadOffsets(bufio.NewReader(dump), codec)
	if err != nil {
		return err
	}

	m, err := common.Open(*file)
	if err != nil {
		return err
	}
	defer m.Close()

	rep := compareOffsets(m.Bytes(), seps, offsets)
	fmt.Fprintln(stderr, rep)
	if !rep.ok() {
		return errVerifyFailed
	}
	return nil
}

var errVerifyFailed = errors.New("offsets do not match the file")

type report struct {
	total     int
	expected  uint64
	missing   *roaring64.Bitmap
	extra     *roaring64.Bitmap
	unordered bool
}

func (r report) ok() bool {
	return !r.unordered && r.missing.IsEmpty() && r.extra.IsEmpty()
}

func (r report) String() string {
	status := "OK"
	if !r.ok() {
		status = "MISMATCH"
	}
	s := fmt.Sprintf("%s: %d offsets checked, %d expected, %d missing, %d extra",
		status, r.total, r.expected, r.missing.GetCardinality(), r.extra.GetCardinality())
	if r.unordered {
		s += ", stream is not strictly ascending"
	}
	if !r.missing.IsEmpty() {
		s += fmt.Sprintf(", first missing %d", r.missing.Minimum())
	}
	if !r.extra.IsEmpty() {
		s += fmt.Sprintf(", first extra %d", r.extra.Minimum())
	}
	return s
}

// compareOffsets checks offsets against a brute-force scan of data.
func compareOffsets(data, seps []byte, offsets []uint64) report {
	want := roaring64.New()
	for i, c := range data {
		if bytes.IndexByte(seps, c) >= 0 {
			want.Add(uint64(i))
		}
	}

	got := roaring64.New()
	got.AddMany(offsets)

	unordered := !slices.IsSorted(offsets) || got.GetCardinality() != uint64(len(offsets))

	return report{
		total:     len(offsets),
		expected:  want.GetCardinality(),
		missing:   roaring64.AndNot(want, got),
		extra:     roaring64.AndNot(got, want),
		unordered: unordered,
	}
}
