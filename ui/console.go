// Package ui draws the queue board for people watching the session.
// It only reads snapshots and never mutates the queue.
package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"karaoke-queue/projection"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const emptyBoard = "Queue is empty"

// ConsoleBoard renders each snapshot as a borderless table on out.
type ConsoleBoard struct {
	mu      sync.Mutex
	out     io.Writer
	colored bool
	renders int
}

func NewConsoleBoard(out io.Writer, colored bool) *ConsoleBoard {
	return &ConsoleBoard{out: out, colored: colored}
}

func (b *ConsoleBoard) Render(ctx context.Context, snapshot projection.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renders++

	title := fmt.Sprintf("Board #%d", b.renders)
	if b.colored {
		title = color.New(color.FgCyan, color.OpBold).Render(title)
	}
	if _, err := fmt.Fprintln(b.out, title); err != nil {
		return err
	}

	if len(snapshot.Rows) == 0 {
		_, err := fmt.Fprintln(b.out, emptyBoard)
		return err
	}

	table := tablewriter.NewWriter(b.out)
	table.SetHeader([]string{"#", "Participant"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range snapshot.Rows {
		label := row.Label
		if b.colored {
			label = color.HEX(row.Color).Sprint(label)
		}
		table.Append([]string{strconv.Itoa(row.Position + 1), label})
	}
	table.Render()
	return nil
}

// Renders reports how many snapshots were drawn.
func (b *ConsoleBoard) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}
