// SPDX-License-Identifier: EPL-2.0

// Command audtrans converts the audio of media files to a fixed sample rate,
// sample format and channel layout.
//
//	audtrans [flags] input output
//	audtrans [flags] -outdir dir input...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audtrans"
	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/sink"
)

var (
	rate      = flag.Int("rate", 16000, "Output sample rate in Hz")
	format    = flag.String("format", "s16", "Output sample format (u8, s16, s32, flt, dbl, planar with a p suffix)")
	layout    = flag.String("layout", "mono", "Output channel layout (mono, stereo, 5.1, ...)")
	container = flag.String("container", "raw", "Output container: raw or wav")
	logLevel  = flag.String("log-level", "warning", "Log level (trace, debug, info, warning, error)")
	logJSON   = flag.Bool("log-json", false, "Log as JSON")
	jobs      = flag.Int("jobs", runtime.NumCPU(), "Files converted at the same time")
	outDir    = flag.String("outdir", "", "Write one output per input into this directory")
)

type job struct {
	input, output string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input output\n       %s [flags] -outdir dir input...\n",
			os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.SetLevel(level)

	cfg, opener, err := parseTarget()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	jobList, err := plan(flag.Args(), *outDir, *container)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(int(run(ctx, log, cfg, opener, jobList)))
}

func parseTarget() (audtrans.Config, sink.Opener, error) {
	f, err := audio.ParseSampleFormat(*format)
	if err != nil {
		return audtrans.Config{}, nil, err
	}
	l, err := audio.ParseChannelLayout(*layout)
	if err != nil {
		return audtrans.Config{}, nil, err
	}
	opener, err := sink.ByName(*container)
	if err != nil {
		return audtrans.Config{}, nil, err
	}
	cfg := audtrans.Config{SampleRate: *rate, Format: f, Layout: l}
	return cfg, opener, cfg.Validate()
}

// plan pairs inputs with outputs.
func plan(args []string, dir, kind string) ([]job, error) {
	if dir == "" {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected an input and an output, got %d arguments", len(args))
		}
		return []job{{input: args[0], output: args[1]}}, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	ext := ".raw"
	if strings.EqualFold(kind, "wav") || strings.EqualFold(kind, "wave") {
		ext = ".wav"
	}
	out := make([]job, 0, len(args))
	for _, in := range args {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out = append(out, job{input: in, output: filepath.Join(dir, base+ext)})
	}
	return out, nil
}

// run converts every job and returns the code of the first failure.
func run(ctx context.Context, log *logrus.Logger, cfg audtrans.Config, opener sink.Opener, jobList []job) audtrans.ErrorCode {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))

	var (
		mu    sync.Mutex
		first = audtrans.Success
	)
	for _, j := range jobList {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			entry := log.WithFields(logrus.Fields{"component": "audtrans", "input": j.input})
			tr := audtrans.New(j.input, cfg, audtrans.WithLogger(entry), audtrans.WithSink(opener))
			err := tr.Convert(j.output)
			code := audtrans.CodeOf(err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: error code: %s\n", j.input, code.String())
				if first == audtrans.Success {
					first = code
				}
				return nil
			}
			stats := tr.Stats()
			fmt.Printf("%s -> %s: %d samples, %d bytes\n", j.input, j.output, stats.Samples, stats.Bytes)
			return nil
		})
	}
	_ = g.Wait()
	return first
}
