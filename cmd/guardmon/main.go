package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	owneddrop "github.com/wippyai/owned-drop"
	"github.com/wippyai/owned-drop/registry"
)

const scratchTypeID = 1

// scratch is a synthetic guarded resource: a named buffer whose owned drop
// hands the buffer to a sink by value.
type scratch struct {
	name string
	buf  []byte
	sink func(string, []byte)
}

func (s scratch) DropOwned() {
	s.sink(s.name, s.buf)
}

func main() {
	var (
		count       = flag.Int("n", 4, "Number of seeded resources")
		churn       = flag.Int("churn", 2, "Number of insert/borrow/drop churn rounds")
		verbose     = flag.Bool("v", false, "Log lifecycle events with zap")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*count, *churn, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// traceObserver prints every lifecycle event to stdout.
type traceObserver struct{}

func (traceObserver) OnGuardEvent(e registry.Event) {
	fmt.Printf("  %-15s handle=%d type=%d\n", e.Type, e.Handle, e.TypeID)
}

func run(count, churn int, verbose bool) error {
	table := registry.NewTable()
	table.Subscribe(traceObserver{})

	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
		owneddrop.SetLogger(log)
		table.Subscribe(registry.NewLogObserver(log))
	}

	consumed := 0
	sink := func(name string, buf []byte) {
		consumed += len(buf)
	}

	// Seed
	fmt.Printf("Seeding %d resources:\n", count)
	handles := make([]registry.Handle, 0, count)
	for i := 0; i < count; i++ {
		h, err := table.Insert(scratchTypeID, scratch{
			name: fmt.Sprintf("scratch-%d", i),
			buf:  make([]byte, 64<<(i%4)),
			sink: sink,
		})
		if err != nil {
			return err
		}
		handles = append(handles, h)
	}

	// Churn: borrow, fail a removal against the borrow, return, remove
	for round := 0; round < churn && len(handles) > 0; round++ {
		fmt.Printf("\nChurn round %d:\n", round+1)
		h := handles[0]
		handles = handles[1:]

		table.Borrow(h)
		if err := table.Remove(h); err != nil {
			fmt.Printf("  remove blocked: %v\n", err)
		}
		table.ReturnBorrow(h)
		if err := table.Remove(h); err != nil {
			return err
		}
	}

	fmt.Printf("\nClosing table with %d live resources...\n", table.Len())
	if err := table.Close(); err != nil {
		return err
	}

	fmt.Printf("Consumed %d bytes across all drops\n", consumed)
	return nil
}
