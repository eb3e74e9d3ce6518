package dataprocessing

import (
	"fmt"
	"strings"

	apperrors "scorepanel/internal/errors"
	"scorepanel/pkg/contracts/domain"
)

// FilterComplete restricts a table to one regional unit and splits out the
// records that have a parseable value in every required column.
//
// Participation columns are always parsed as percentages; outcome columns
// follow outcomeIsPercent. The regional is compared literally after trimming
// surrounding whitespace on both sides. A table lacking the Regional column or
// any required column yields a CONFIG error naming the first missing column.
func FilterComplete(t *domain.Table, regional string, participation, outcome []string, outcomeIsPercent bool) (matching, complete []domain.Record, err error) {
	if t == nil {
		return nil, nil, apperrors.NewConfigError("table is not loaded", nil)
	}

	required := make([]string, 0, 1+len(participation)+len(outcome))
	required = append(required, domain.ColumnRegional)
	required = append(required, participation...)
	required = append(required, outcome...)
	if missing := t.MissingColumns(required); len(missing) > 0 {
		return nil, nil, MissingColumnError(t.Name, missing[0])
	}

	return filterComplete(t, regional, columnIndices(t, participation), columnIndices(t, outcome), outcomeIsPercent)
}

// FilterCompleteGroups is FilterComplete over resolved view groups. Values
// are read by header position, so positional groups stay correct when their
// header names repeat or are blank.
func FilterCompleteGroups(t *domain.Table, regional string, groups []ResolvedGroup) (matching, complete []domain.Record, err error) {
	if t == nil {
		return nil, nil, apperrors.NewConfigError("table is not loaded", nil)
	}
	if !t.HasColumn(domain.ColumnRegional) {
		return nil, nil, MissingColumnError(t.Name, domain.ColumnRegional)
	}
	return filterComplete(t, regional,
		ColumnIndices(groups, domain.RoleParticipation),
		ColumnIndices(groups, domain.RoleOutcome),
		OutcomeIsPercent(groups))
}

func filterComplete(t *domain.Table, regional string, participation, outcome []int, outcomeIsPercent bool) (matching, complete []domain.Record, err error) {
	want := strings.TrimSpace(regional)
	for _, rec := range t.Rows {
		if strings.TrimSpace(rec.Regional()) != want {
			continue
		}
		matching = append(matching, rec)

		if domain.AllValid(ParseNumbers(rec.ValuesAt(participation), true)) &&
			domain.AllValid(ParseNumbers(rec.ValuesAt(outcome), outcomeIsPercent)) {
			complete = append(complete, rec)
		}
	}

	return matching, complete, nil
}

func columnIndices(t *domain.Table, columns []string) []int {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
	}
	return idx
}

// MissingColumnError builds the CONFIG error raised when a sheet lacks a
// column a view depends on
func MissingColumnError(sheet, column string) *apperrors.AppError {
	return apperrors.NewConfigError(fmt.Sprintf("sheet %q is missing column %q", sheet, column), nil).
		WithContext("sheet", sheet).
		WithContext("column", column)
}
