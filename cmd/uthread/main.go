package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/zuoan7/uthread/guest"
	"github.com/zuoan7/uthread/sched"
)

type options struct {
	backend    string
	coroutines int
	steps      int
	guests     int
	max        int
	stack      int
	trace      bool
}

func main() {
	var (
		opts        options
		verbose     = flag.Bool("v", false, "Verbose debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.IntVar(&opts.coroutines, "n", 2, "Number of counting coroutines")
	flag.IntVar(&opts.steps, "steps", 3, "Steps per coroutine, each followed by a yield")
	flag.IntVar(&opts.guests, "guest", 0, "Number of WebAssembly ticker coroutines")
	flag.StringVar(&opts.backend, "backend", "pull", "Context switch backend (pull, chan)")
	flag.IntVar(&opts.max, "max", sched.DefaultMaxCoroutines, "Slot table capacity")
	flag.IntVar(&opts.stack, "stack", sched.DefaultStackSize, "Per-slot stack region in bytes")
	flag.BoolVar(&opts.trace, "trace", false, "Print every scheduler event")
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		sched.SetLogger(logger)
		guest.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal on stdout")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options) (err error) {
	d, err := newDemo(ctx, opts, func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i := 0; i < opts.coroutines; i++ {
		if _, err := d.spawnCounter(opts.steps); err != nil {
			return fmt.Errorf("create counter: %w", err)
		}
	}
	for i := 0; i < opts.guests; i++ {
		if _, err := d.spawnTicker(ctx, opts.steps); err != nil {
			return fmt.Errorf("spawn ticker: %w", err)
		}
	}

	if err := d.sched.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(w, "\ncounter: %d\n", d.counter)
	fmt.Fprintf(w, "slots used: %d of %d\n", d.sched.HighWaterMark(), d.sched.Cap())
	for _, id := range d.tickerIDs() {
		call := d.calls[id]
		if call.Err != nil {
			fmt.Fprintf(w, "ticker %d: error: %v\n", id, call.Err)
			continue
		}
		fmt.Fprintf(w, "ticker %d: emitted %v\n", id, call.Emitted)
	}
	return nil
}
