package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/slist"
	"github.com/hupe1980/slist/alloc"
	"github.com/hupe1980/slist/resource"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	allocator string
	budget    int64
	logLevel  string
	jsonLog   bool
	stats     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "slist",
		Short: "Exercise a singly-linked list over pluggable allocators",
		Long: `slist builds singly-linked lists of unsigned 32-bit integers on top of
a configurable allocator and prints what happens to them.

Every list record, node and iterator record is taken from the selected
allocator, so --stats shows exactly what a run allocated and released.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.allocator, "allocator", "heap", "Allocator backing the list: heap, pool or offheap")
	cmd.PersistentFlags().Int64Var(&g.budget, "budget", 0, "Memory budget in bytes (0 = unlimited)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&g.jsonLog, "json", false, "Emit logs as JSON")
	cmd.PersistentFlags().BoolVar(&g.stats, "stats", false, "Print allocator statistics after the run")

	cmd.AddCommand(newDemoCmd(g), newRunCmd(g))
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session is one list together with the allocator stack beneath it.
type session struct {
	list     *slist.List
	counting *alloc.Counting
	pool     *alloc.Pool
	rc       *resource.Controller
	stats    bool
	out      io.Writer
}

// open builds the allocator stack selected by the flags and creates a list on it.
// The stack is Counting over an optional Budget over the base allocator.
func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	s := &session{
		stats: g.stats,
		out:   cmd.OutOrStdout(),
	}

	var base alloc.Allocator
	switch g.allocator {
	case "heap":
		base = alloc.Heap{}
	case "pool", "offheap":
		var opts []alloc.PoolOption
		if g.allocator == "offheap" {
			opts = append(opts, alloc.WithOffHeap())
		}
		pool, err := alloc.NewPool(alloc.DefaultBlockSize, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create pool: %w", err)
		}
		s.pool = pool
		base = pool
	default:
		return nil, fmt.Errorf("unknown allocator %q (want heap, pool or offheap)", g.allocator)
	}

	if g.budget < 0 {
		s.closePool()
		return nil, fmt.Errorf("invalid budget %d", g.budget)
	}
	if g.budget > 0 {
		s.rc = resource.NewController(resource.Config{MemoryLimitBytes: g.budget})
		base = alloc.NewBudget(base, s.rc)
	}
	s.counting = alloc.NewCounting(base)

	logger, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		s.closePool()
		return nil, err
	}

	l, err := slist.New(slist.WithAllocator(s.counting), slist.WithLogger(logger))
	if err != nil {
		s.closePool()
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	s.list = l
	return s, nil
}

func (g *globalFlags) logger(w io.Writer) (*slist.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", g.logLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	if g.jsonLog {
		return slist.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return slist.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func (s *session) closePool() {
	if s.pool != nil {
		_ = s.pool.Close()
	}
}

// close destroys the list and releases the pool, printing stats if requested.
func (s *session) close() error {
	err := s.list.Destroy()

	if s.stats {
		s.printf("\nAllocator:\n")
		s.printf("  %s\n", s.counting)
		if s.pool != nil {
			s.printf("  %s\n", s.pool)
		}
		if s.rc != nil {
			s.printf("  Budget{limit: %d B, peak: %d B, denied: %d}\n",
				s.rc.MemoryLimit(), s.rc.PeakMemoryUsage(), s.rc.Denied())
		}
	}

	s.closePool()

	if err != nil {
		return fmt.Errorf("failed to destroy list: %w", err)
	}
	if live := s.counting.Live(); live != 0 {
		return fmt.Errorf("%d blocks still live after destroy", live)
	}
	return nil
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
