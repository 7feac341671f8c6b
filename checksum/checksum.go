// Package checksum writes and verifies per-file digest lists for a folder.
//
// A list holds one "digest\tpath" line per file. Generate appends to an
// existing list and skips files it already names, so an interrupted run can
// be resumed.
package checksum

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hashwrap/algo"
	"hashwrap/hashwriter"
	"hashwrap/logging"
)

// Options configures Generate and Verify.
type Options struct {
	Dir       string
	List      string // output file for Generate, input for Verify
	Algorithm algo.Algorithm
	Encoding  algo.Encoding
	Workers   int
	Verbose   bool
	Progress  bool
	Out       io.Writer
	Logger    *zap.Logger
}

// Summary reports what a run did.
type Summary struct {
	Total    int
	Match    int
	Mismatch int
	Failed   int
	Bytes    uint64
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	// the progress ticker and the result collector both write to Out
	o.Out = &lockedWriter{w: o.Out}
	o.Logger = logging.OrNop(o.Logger)
}

// lockedWriter serializes writes to w.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Generate hashes every file under Dir not yet present in List and appends
// the results to List.
func Generate(ctx context.Context, opts Options) (Summary, error) {
	opts.defaults()
	var sum Summary

	processed := map[string]bool{}
	if f, err := os.Open(opts.List); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			parts := strings.SplitN(scanner.Text(), "\t", 2)
			if len(parts) == 2 {
				processed[parts[1]] = true
			}
		}
		f.Close()
	}

	file, err := os.OpenFile(opts.List, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return sum, errors.Wrap(err, "open list")
	}
	defer file.Close()
	mu := sync.Mutex{}

	var paths []string
	err = filepath.WalkDir(opts.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && !processed[path] && !sameFile(path, opts.List) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return sum, errors.Wrap(err, "walk")
	}
	sum.Total = len(paths)
	opts.Logger.Debug("Generating checksums",
		zap.String("dir", opts.Dir),
		zap.String("algorithm", opts.Algorithm.Name),
		zap.Int("files", len(paths)),
		zap.Int("skipped", len(processed)))

	var processedCount int64
	var failed int64
	var bytes uint64

	jobs := make(chan string)
	wg := sync.WaitGroup{}
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				digest, n, err := HashFile(path, opts.Algorithm, opts.Encoding)
				if err != nil {
					opts.Logger.Warn("Hash failed", zap.String("path", path), zap.Error(err))
					atomic.AddInt64(&failed, 1)
				} else {
					line := fmt.Sprintf("%s\t%s\n", digest, path)
					mu.Lock()
					if _, err := file.WriteString(line); err == nil {
						file.Sync()
					}
					mu.Unlock()
					atomic.AddUint64(&bytes, n)
				}
				atomic.AddInt64(&processedCount, 1)
			}
		}()
	}

	stop := startProgress(opts, &processedCount, sum.Total)
	err = feed(ctx, jobs, paths)
	wg.Wait()
	stop()

	sum.Failed = int(failed)
	sum.Bytes = bytes
	return sum, err
}

// Verify rehashes the files named in List, relative to Dir, and reports
// mismatches to Out.
func Verify(ctx context.Context, opts Options) (Summary, error) {
	opts.defaults()
	var sum Summary

	type entry struct {
		hash string
		path string
	}
	var entries []entry

	f, err := os.Open(opts.List)
	if err != nil {
		return sum, errors.Wrap(err, "open list")
	}
	scanner := bufio.NewScanner(f)
	var prefix string
	first := true
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), "\t", 2)
		if len(parts) == 2 {
			p := strings.ReplaceAll(parts[1], "\\", "/")
			if first {
				prefix = p
				first = false
			} else {
				prefix = commonPrefix(prefix, p)
			}
			entries = append(entries, entry{hash: parts[0], path: p})
		}
	}
	f.Close()
	if err := scanner.Err(); err != nil {
		return sum, errors.Wrap(err, "read list")
	}

	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		prefix = prefix[:i+1]
	} else {
		prefix = ""
	}

	expected := map[string]string{}
	var paths []string
	for _, e := range entries {
		rel := strings.TrimPrefix(e.path, prefix)
		expected[rel] = e.hash
		paths = append(paths, rel)
	}
	sum.Total = len(paths)
	opts.Logger.Debug("Verifying checksums",
		zap.String("list", opts.List),
		zap.String("prefix", prefix),
		zap.Int("files", len(paths)))

	var processedCount int64

	type result struct {
		path   string
		status string
		ok     bool
		failed bool
		bytes  uint64
	}

	jobs := make(chan string)
	results := make(chan result, opts.Workers)
	done := make(chan struct{})
	wg := sync.WaitGroup{}
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				path := filepath.Join(opts.Dir, name)
				exp, ok := expected[name]
				digest, n, hErr := HashFile(path, opts.Algorithm, opts.Encoding)
				r := result{path: path, bytes: n}
				if hErr != nil {
					r.status = hErr.Error()
					r.failed = true
				} else if !ok || exp != digest {
					r.status = "MISMATCH"
				} else {
					r.status = "OK"
					r.ok = true
				}
				results <- r
				atomic.AddInt64(&processedCount, 1)
			}
		}()
	}

	go func() {
		for r := range results {
			sum.Bytes += r.bytes
			if r.ok {
				sum.Match++
			} else {
				sum.Mismatch++
			}
			if r.failed {
				sum.Failed++
			}
			if opts.Verbose || !r.ok {
				fmt.Fprintf(opts.Out, "%s %s\n", r.path, r.status)
			}
		}
		close(done)
	}()

	stop := startProgress(opts, &processedCount, sum.Total)
	err = feed(ctx, jobs, paths)
	wg.Wait()
	close(results)
	stop()
	<-done

	if err != nil {
		return sum, err
	}
	if !opts.Verbose && sum.Mismatch == 0 {
		fmt.Fprintln(opts.Out, "All files match")
	}
	fmt.Fprintf(opts.Out, "Total:%d Match:%d Mismatch:%d\n", sum.Total, sum.Match, sum.Mismatch)
	return sum, nil
}

// HashFile digests the file at path and returns the encoded digest together
// with the number of bytes read.
func HashFile(path string, alg algo.Algorithm, enc algo.Encoding) (string, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	w, err := hashwriter.New(alg.New)
	if err != nil {
		return "", 0, err
	}
	if _, err := io.Copy(w, f); err != nil {
		return "", w.Len(), err
	}
	s, err := alg.Format(w.Digest(), enc)
	return s, w.Len(), err
}

// feed sends paths to the workers and closes jobs. It stops early when ctx
// is done.
func feed(ctx context.Context, jobs chan<- string, paths []string) error {
	defer close(jobs)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case jobs <- p:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// startProgress prints done/total once per second until the returned
// function is called, which prints the final count.
func startProgress(opts Options, count *int64, total int) func() {
	if !opts.Progress || total == 0 {
		return func() {}
	}
	ticker := time.NewTicker(time.Second)
	quit := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(opts.Out, "%d/%d\n", atomic.LoadInt64(count), total)
			case <-quit:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(quit)
		<-finished
		fmt.Fprintf(opts.Out, "%d/%d\n", atomic.LoadInt64(count), total)
	}
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}
