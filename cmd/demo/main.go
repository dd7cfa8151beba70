package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/bulwark/boundary"
	"github.com/delaneyj/bulwark/redscreen"
	"github.com/delaneyj/bulwark/registry"
	"github.com/delaneyj/bulwark/scope"
)

const (
	passesKey   = "passes"
	failAtKey   = "fail-at"
	rotateAtKey = "rotate-at"
	panicKey    = "panic"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Drive an error boundary through capture, fallback and keyed reset",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  passesKey,
				Usage: "Number of render passes to drive",
				Value: 8,
			},
			&cli.UintFlag{
				Name:  failAtKey,
				Usage: "Pass on which the ticker component starts failing",
				Value: 3,
			},
			&cli.UintFlag{
				Name:  rotateAtKey,
				Usage: "Pass on which the session reset key rotates",
				Value: 6,
			},
			&cli.BoolFlag{
				Name:  panicKey,
				Usage: "Make the ticker panic instead of returning an error",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type logNotifier struct{}

func (logNotifier) NotifyCapture(name string, err error, ctx boundary.Context, count int) {
	log.Printf("NOTIFY boundary=%s component=%s count=%d err=%v", name, ctx.Component, count, err)
}

func run(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Boundary demo started!")
	defer func() {
		log.Printf("Boundary demo finished in %v", time.Since(start))
	}()

	passes := int(cmd.Uint(passesKey))
	failAt := int(cmd.Uint(failAtKey))
	rotateAt := int(cmd.Uint(rotateAtKey))
	panicMode := cmd.Bool(panicKey)

	tree := scope.NewTree()
	reg := registry.New(
		registry.WithNotifier(logNotifier{}),
		registry.WithWindow(time.Minute),
	)

	app := boundary.New(boundary.Options[string]{
		Name:           "app",
		Tree:           tree,
		FallbackRender: redscreen.Fallback(),
		Observer:       reg,
		OnResetKeysChange: func(prev, next []any) {
			log.Printf("session rotated %v -> %v, boundary recovering", prev, next)
		},
	})

	ticker := func(pass int, session string) (string, error) {
		return scope.Run(tree, "ticker", func() (string, error) {
			if pass >= failAt && session == "session-1" {
				if panicMode {
					panic("ticker exploded")
				}
				return "", errors.New("ticker feed unavailable")
			}
			return fmt.Sprintf("tick %d", pass), nil
		})
	}

	for pass := 1; pass <= passes; pass++ {
		session := "session-1"
		if pass >= rotateAt {
			session = "session-2"
		}

		app.Update(session)

		out, err := app.Render(func() (string, error) {
			return scope.Run(tree, "dashboard", func() (string, error) {
				t, err := ticker(pass, session)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("dashboard | %s | %s", session, t), nil
			})
		})
		if err != nil {
			return fmt.Errorf("pass %d: %w", pass, err)
		}

		fmt.Printf("\n=== pass %d (%s, %s) ===\n%s\n", pass, session, app.Phase(), out)
	}

	fmt.Println()
	log.Printf("degraded: %v, armed: %v", reg.Degraded(), reg.Armed())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"boundary", "component", "digest", "count", "notified", "first seen", "last seen", "last error",
	})
	for _, rec := range reg.Snapshot() {
		table.Append([]string{
			rec.Boundary,
			rec.Component,
			fmt.Sprintf("%016x", rec.Digest),
			humanize.Comma(int64(rec.Count)),
			humanize.Comma(int64(rec.Notifications)),
			humanize.Time(rec.FirstSeen),
			humanize.Time(rec.LastSeen),
			rec.LastMessage,
		})
	}
	table.Render()

	return nil
}
