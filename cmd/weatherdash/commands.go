// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wneessen/weatherdash/internal/service"
	"github.com/wneessen/weatherdash/internal/weather"
)

const helpText = `Commands:
  search <city>   show the weather for a city
  add [city]      add a city, or the displayed one, to the comparison
  remove <city>   remove a city from the comparison
  units           toggle between metric and imperial units
  locate          show the weather for the network location
  refresh         refresh the comparison
  list            list the cities on the comparison
  quit            exit weatherdash
`

// dashboard is the set of operations the command loop drives.
type dashboard interface {
	Search(ctx context.Context, city string) error
	AddCurrent(ctx context.Context) error
	AddCity(ctx context.Context, city string) error
	Remove(ctx context.Context, city string) error
	ToggleUnits(ctx context.Context) weather.Units
	Locate(ctx context.Context) error
	RefreshWatchlist(ctx context.Context)
	Cities() []string
}

// readCommands executes one command per input line until quit, EOF or cancellation.
func readCommands(ctx context.Context, dash dashboard, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if !execCommand(ctx, dash, scanner.Text(), out) {
			return
		}
	}
}

// execCommand runs a single command line. It returns false if the loop should end.
func execCommand(ctx context.Context, dash dashboard, line string, out io.Writer) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "search", "s":
		_ = dash.Search(ctx, arg)
	case "add", "a":
		if arg == "" {
			if err := dash.AddCurrent(ctx); errors.Is(err, service.ErrNoCurrentCity) {
				_, _ = fmt.Fprintln(out, "Search for a city first.")
			}
			break
		}
		_ = dash.AddCity(ctx, arg)
	case "remove", "rm":
		_ = dash.Remove(ctx, arg)
	case "units", "u":
		units := dash.ToggleUnits(ctx)
		_, _ = fmt.Fprintf(out, "Units: %s\n", units)
	case "locate", "l":
		_ = dash.Locate(ctx)
	case "refresh", "r":
		dash.RefreshWatchlist(ctx)
	case "list":
		cities := dash.Cities()
		if len(cities) == 0 {
			_, _ = fmt.Fprintln(out, "No cities on the comparison.")
			break
		}
		_, _ = fmt.Fprintln(out, strings.Join(cities, "\n"))
	case "quit", "exit", "q":
		return false
	default:
		_, _ = fmt.Fprint(out, helpText)
	}
	return true
}
