// Command benchmark generates a synthetic CSV file and reports scan
// throughput for every backend that can handle its separators.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/csvquery/scanbytes"
	"github.com/csvquery/scanbytes/internal/common"
)

func main() {
	sizeMB := flag.Int("size", 500, "Size of the generated CSV in MB")
	attempts := flag.Int("attempts", 10, "Timed scans per backend")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of parallel workers")
	flag.Parse()

	if err := run(*sizeMB, *attempts, *workers, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sizeMB, attempts, workers int, out io.Writer) error {
	fmt.Fprintf(out, "Generating %d MB CSV...\n", sizeMB)
	tmpDir, err := os.MkdirTemp("", "scanbytes_bench")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	csvPath := filepath.Join(tmpDir, "bench.csv")
	rows, written, err := generateCSV(csvPath, int64(sizeMB)*1024*1024)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated %d rows (%.2f MB)\n", rows, float64(written)/1024/1024)

	m, err := common.Open(csvPath)
	if err != nil {
		return err
	}
	defer m.Close()

	seps := []byte{',', '\n'}
	fmt.Fprintf(out, "\n%-10s %-28s %s\n", "backend", "latency", "throughput")
	fmt.Fprintln(out, "--------------------------------------------------------------")

	for _, b := range []scanbytes.Backend{scanbytes.Auto, scanbytes.Compiled, scanbytes.Bitmap, scanbytes.CSV} {
		resolved, err := scanbytes.Resolve(b, seps)
		if err != nil {
			fmt.Fprintf(out, "%-10s skipped: %v\n", b, err)
			continue
		}

		samples, err := scanbytes.Benchmark(resolved, m.Bytes(), seps, attempts, scanbytes.WithWorkers(workers))
		if err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
		s := scanbytes.Summarize(samples)

		mbPerSec := 0.0
		if s.Mean > 0 {
			mbPerSec = float64(m.Len()) / 1024 / 1024 / s.Mean.Seconds()
		}
		name := b.String()
		if b == scanbytes.Auto {
			name = "auto:" + resolved.String()
		}
		fmt.Fprintf(out, "%-10s %-28s %.2f MB/s\n", name, s, mbPerSec)
	}
	return nil
}

// generateCSV writes rows of id,code,value,"description" until limit bytes.
func generateCSV(path string, limit int64) (rows int, written int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriterSize(f, 64*1024)
	n, _ := w.WriteString("id,code,value,description\n")
	written = int64(n)

	rng := rand.New(rand.NewSource(123))
	buf := make([]byte, 0, 1024)

	for written < limit {
		rows++
		// Avoid fmt.Sprintf for speed
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(rows), 10)
		buf = append(buf, ",US-"...)
		buf = strconv.AppendInt(buf, int64(rng.Intn(1000)), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(rng.Intn(10000)), 10)
		buf = append(buf, ",\"Description for item "...)
		buf = strconv.AppendInt(buf, int64(rows), 10)
		buf = append(buf, " with some padding to make it longer\"\n"...)

		n, err := w.Write(buf)
		if err != nil {
			return rows, written, err
		}
		written += int64(n)
	}
	return rows, written, w.Flush()
}
