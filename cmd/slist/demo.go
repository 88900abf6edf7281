package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newDemoCmd(g *globalFlags) *cobra.Command {
	var start int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a sample list and walk it with an iterator",
		Long: `The demo command inserts 10, 20 and 40 at the front, appends 80 and 100,
prints the list and walks it from --start to the end.

Example:
  slist demo
  slist demo --start 0 --allocator pool --stats`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, g, start)
		},
	}

	cmd.Flags().IntVar(&start, "start", 2, "Index the iterator starts at")
	return cmd
}

func runDemo(cmd *cobra.Command, g *globalFlags, start int) (err error) {
	s, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); err == nil {
			err = cerr
		}
	}()

	l := s.list
	for _, v := range []uint32{10, 20, 40} {
		if err := l.InsertFront(v); err != nil {
			return err
		}
	}
	for _, v := range []uint32{80, 100} {
		if err := l.InsertEnd(v); err != nil {
			return err
		}
	}

	size, err := l.Size()
	if err != nil {
		return err
	}
	s.printf("Size: %d\n", size)
	s.printf("Elements: %s\n", l)

	it, err := l.NewIterator(start)
	if err != nil {
		return err
	}
	defer it.Close()

	var walked []string
	for ok := true; ok; ok = it.Next() {
		walked = append(walked, formatUint(it.Value()))
	}
	if err := it.Err(); err != nil {
		return err
	}
	s.printf("From %d: %s\n", start, strings.Join(walked, " "))
	return nil
}
