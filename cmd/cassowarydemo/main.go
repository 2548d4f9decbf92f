// Command cassowarydemo builds a tiny three-pane horizontal layout —
// sidebar, content, and a fixed-width gutter between them — and resolves
// it with the cassowary solver as the terminal is "resized" across a few
// suggested widths.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/layoutkit/cassowary"
)

func main() {
	width := flag.Float64("width", 120, "total layout width to solve for")
	sidebar := flag.Float64("sidebar", 30, "preferred sidebar width")
	flag.Parse()

	if err := run(*width, *sidebar); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("cassowarydemo: %v", err))
		os.Exit(1)
	}
}

func run(totalWidth, preferredSidebar float64) error {
	logger := log.New(os.Stderr, "cassowary: ", 0)
	s := cassowary.NewSolver(
		cassowary.WithLogger(stdLogger{logger}),
		cassowary.WithAutoUpdate(true),
	)

	left := s.NewVariable()
	sidebarWidth := s.NewVariable()
	gutter := s.NewVariable()
	content := s.NewVariable()
	total := s.NewVariable()

	sum := s.NewConstraint(cassowary.Required)
	if err := sum.SetRelation(cassowary.Equal); err != nil {
		return err
	}
	for _, term := range []struct {
		v     *cassowary.Variable
		coeff float64
	}{
		{left, 1}, {sidebarWidth, 1}, {gutter, 1}, {content, 1}, {total, -1},
	} {
		if err := sum.AddTerm(term.v, term.coeff); err != nil {
			return err
		}
	}
	if err := sum.Add(); err != nil {
		return err
	}

	if err := pin(s, left, 0); err != nil {
		return err
	}
	if err := pin(s, gutter, 1); err != nil {
		return err
	}

	minSidebar := s.NewConstraint(cassowary.Required)
	if err := minSidebar.AddTerm(sidebarWidth, 1); err != nil {
		return err
	}
	if err := minSidebar.AddConstant(-16); err != nil {
		return err
	}
	if err := minSidebar.SetRelation(cassowary.GreaterEqual); err != nil {
		return err
	}
	if err := minSidebar.Add(); err != nil {
		return err
	}

	minContent := s.NewConstraint(cassowary.Required)
	if err := minContent.AddTerm(content, 1); err != nil {
		return err
	}
	if err := minContent.AddConstant(-40); err != nil {
		return err
	}
	if err := minContent.SetRelation(cassowary.GreaterEqual); err != nil {
		return err
	}
	if err := minContent.Add(); err != nil {
		return err
	}

	if err := total.AddEdit(cassowary.Required); err != nil {
		return err
	}
	if err := sidebarWidth.AddEdit(cassowary.Strong); err != nil {
		return err
	}

	for _, w := range []float64{totalWidth, totalWidth * 0.6, totalWidth * 1.5} {
		if err := total.Suggest(w); err != nil {
			return err
		}
		if err := sidebarWidth.Suggest(preferredSidebar); err != nil {
			return err
		}
		render(w, sidebarWidth.Value(), content.Value())
	}
	return nil
}

func pin(s *cassowary.Solver, v *cassowary.Variable, value float64) error {
	c := s.NewConstraint(cassowary.Required)
	if err := c.SetRelation(cassowary.Equal); err != nil {
		return err
	}
	if err := c.AddTerm(v, 1); err != nil {
		return err
	}
	if err := c.AddConstant(-value); err != nil {
		return err
	}
	return c.Add()
}

func render(total, sidebar, content float64) {
	fmt.Printf("total=%-6.1f  ", total)
	fmt.Print(color.CyanString("sidebar=%-6.1f", sidebar))
	fmt.Print("  ")
	fmt.Println(color.GreenString("content=%-6.1f", content))
}

type stdLogger struct{ l *log.Logger }

func (s stdLogger) Print(v ...interface{}) { s.l.Println(v...) }
