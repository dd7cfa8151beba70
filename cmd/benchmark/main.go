package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/delaneyj/bulwark/boundary"
)

func main() {
	flag.Parse()

	f, err := os.Create("default.pgo")
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")

	benchmarkClearPath(true)
	benchmarkContainAndReset(true)
	benchmarkKeyCompare(true)
}

var (
	depths    = []int{1, 10, 100, 1_000}
	keyCounts = []int{1, 4, 16, 64}
	iters     = 100
)

var errBench = errors.New("bench failure")

// nest builds a chain of boundaries around leaf, depth levels deep, and
// returns the outermost render thunk plus the innermost boundary.
func nest(depth int, leaf boundary.RenderFunc[int]) (boundary.RenderFunc[int], *boundary.Boundary[int]) {
	render := leaf
	var innermost *boundary.Boundary[int]
	for i := 0; i < depth; i++ {
		b := boundary.New(boundary.Options[int]{
			Fallback: boundary.Static(-1),
		})
		if innermost == nil {
			innermost = b
		}
		inner := render
		render = func() (int, error) { return b.Render(inner) }
	}
	return render, innermost
}

func benchmarkClearPath(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Clear Path")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	leaf := func() (int, error) { return 1, nil }
	total := int64(0)

	// baseline, the same leaf with no boundary around it
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if _, err := leaf(); err != nil {
			log.Panic(err)
		}
		tach.AddTime(time.Since(start))
		total++
	}
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			"bare call",
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})

	for _, depth := range depths {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		render, _ := nest(depth, leaf)

		for i := 0; i < iters; i++ {
			start := time.Now()
			if _, err := render(); err != nil {
				log.Panic(err)
			}
			tach.AddTime(time.Since(start))
			total++
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("healthy render: depth %d", depth),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	log.Printf("clear path: %s renders", humanize.Comma(total))
	if shouldRender {
		tbl.Render()
	}
}

func benchmarkContainAndReset(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Capture + Fallback + Reset")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, depth := range depths {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		render, innermost := nest(depth, func() (int, error) { return 0, errBench })

		for i := 0; i < iters; i++ {
			start := time.Now()
			if _, err := render(); err != nil {
				log.Panic(err)
			}
			innermost.Reset()
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("contain cycle: depth %d", depth),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkKeyCompare(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Keyed Reset")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, n := range keyCounts {
		keys := make([]any, n)
		for i := range keys {
			keys[i] = i
		}

		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		b := boundary.New(boundary.Options[int]{
			Fallback: boundary.Static(-1),
		})
		b.CaptureError(errBench, boundary.Context{})
		b.Update(keys...)

		// identical keys on a settled boundary, Update only runs the comparison
		for i := 0; i < iters; i++ {
			start := time.Now()
			if b.Update(keys...) {
				log.Panic("unexpected reset")
			}
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("unchanged keys: %d keys", n),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	for _, n := range keyCounts {
		keys := make([]any, n)
		for i := range keys {
			keys[i] = i
		}

		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		b := boundary.New(boundary.Options[int]{
			Fallback: boundary.Static(-1),
		})

		for i := 0; i < iters; i++ {
			keys[n-1] = i

			start := time.Now()
			b.CaptureError(errBench, boundary.Context{})
			b.Update(keys...)
			keys[n-1] = i + 1_000_000
			if !b.Update(keys...) {
				log.Panic("expected reset")
			}
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("arm+settle+reset: %d keys", n),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
