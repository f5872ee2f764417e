package builder

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
)

// Status lists every recorded command with its staleness, sorted by command.
func (b *Builder) Status(ctx context.Context) ([]domain.CommandStatus, error) {
	records, err := b.store.Records()
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.CommandStatus, 0, len(records))
	for command, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.CommandStatus{
			Command: command,
			Stale:   b.changed(record),
			Inputs:  len(record.Paths(domain.Input)),
			Outputs: len(record.Paths(domain.Output)),
		})
	}

	slices.SortFunc(statuses, func(a, b domain.CommandStatus) int {
		return strings.Compare(a.Command, b.Command)
	})
	return statuses, nil
}
