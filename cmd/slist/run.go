package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/slist"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <op>...",
		Short: "Apply a sequence of list operations",
		Long: `The run command applies each operation in order to a fresh list and
prints the list afterwards. The run stops at the first failing operation.

Operations:
  front:V    insert V at the front
  end:V      insert V at the end
  at:I:V     insert V at index I
  rm:I       remove the element at index I
  find:V     print the index of the first V

Example:
  slist run front:1 end:3 at:1:2 find:3
  slist run --allocator offheap --budget 64 end:1 end:2 rm:0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOps(cmd, g, args)
		},
	}
}

type opKind int

const (
	opFront opKind = iota
	opEnd
	opAt
	opRemove
	opFind
)

type op struct {
	kind  opKind
	index int
	value uint32
}

func parseOp(s string) (op, error) {
	name, arg, ok := strings.Cut(s, ":")
	if !ok {
		return op{}, fmt.Errorf("malformed operation %q", s)
	}

	var (
		o   op
		err error
	)
	switch name {
	case "front":
		o.kind = opFront
		o.value, err = parseValue(arg)
	case "end":
		o.kind = opEnd
		o.value, err = parseValue(arg)
	case "find":
		o.kind = opFind
		o.value, err = parseValue(arg)
	case "rm":
		o.kind = opRemove
		o.index, err = strconv.Atoi(arg)
	case "at":
		index, value, found := strings.Cut(arg, ":")
		if !found {
			return op{}, fmt.Errorf("malformed operation %q", s)
		}
		o.kind = opAt
		if o.index, err = strconv.Atoi(index); err == nil {
			o.value, err = parseValue(value)
		}
	default:
		return op{}, fmt.Errorf("unknown operation %q", s)
	}
	if err != nil {
		return op{}, fmt.Errorf("operation %q: %w", s, err)
	}
	return o, nil
}

func parseValue(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil //nolint:gosec // ParseUint bounds v to 32 bits
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func runOps(cmd *cobra.Command, g *globalFlags, args []string) (err error) {
	// Parse everything before touching the allocator.
	ops := make([]op, 0, len(args))
	for _, a := range args {
		o, err := parseOp(a)
		if err != nil {
			return err
		}
		ops = append(ops, o)
	}

	s, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()

	for i, o := range ops {
		if err := apply(s, o); err != nil {
			return fmt.Errorf("operation %q: %w", args[i], err)
		}
	}

	s.printf("%s\n", s.list)
	return nil
}

func apply(s *session, o op) error {
	l := s.list

	switch o.kind {
	case opFront:
		return l.InsertFront(o.value)
	case opEnd:
		return l.InsertEnd(o.value)
	case opAt:
		return l.InsertAt(o.index, o.value)
	case opRemove:
		return l.Remove(o.index)
	case opFind:
		idx, err := l.Find(o.value)
		if errors.Is(err, slist.ErrNotFound) {
			s.printf("find %d: not found\n", o.value)
			return nil
		}
		if err != nil {
			return err
		}
		s.printf("find %d: %d\n", o.value, idx)
		return nil
	default:
		return fmt.Errorf("unhandled operation kind %d", o.kind)
	}
}
