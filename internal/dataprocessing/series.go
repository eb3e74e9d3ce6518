package dataprocessing

import (
	"fmt"
	"math"
	"slices"
	"strings"

	apperrors "scorepanel/internal/errors"
	"scorepanel/pkg/contracts/domain"
)

// ResolvedGroup is a column group bound to the header of a concrete table.
// Indices are the header positions read for the group; Names are the header
// texts at those positions and may repeat or be blank.
type ResolvedGroup struct {
	domain.ColumnGroup
	Names   []string
	Indices []int
}

// ResolveGroup binds a column group to a table header. Positional groups
// take Count columns starting at FirstIndex; named groups must exist.
func ResolveGroup(t *domain.Table, g domain.ColumnGroup) (ResolvedGroup, error) {
	if !g.Positional() {
		if missing := t.MissingColumns(g.Columns); len(missing) > 0 {
			return ResolvedGroup{}, MissingColumnError(t.Name, missing[0])
		}
		indices := make([]int, len(g.Columns))
		for i, c := range g.Columns {
			indices[i] = t.ColumnIndex(c)
		}
		return ResolvedGroup{ColumnGroup: g, Names: slices.Clone(g.Columns), Indices: indices}, nil
	}

	end := g.FirstIndex + g.Count
	if g.FirstIndex < 0 || end > len(t.Columns) {
		return ResolvedGroup{}, apperrors.NewConfigError(
			fmt.Sprintf("sheet %q has %d columns, group %q needs columns %d to %d",
				t.Name, len(t.Columns), g.Key, g.FirstIndex+1, end), nil).
			WithContext("sheet", t.Name).
			WithContext("group", g.Key)
	}
	indices := make([]int, 0, g.Count)
	for i := g.FirstIndex; i < end; i++ {
		indices = append(indices, i)
	}
	return ResolvedGroup{ColumnGroup: g, Names: slices.Clone(t.Columns[g.FirstIndex:end]), Indices: indices}, nil
}

// ResolveView binds every group of a view to the table header
func ResolveView(t *domain.Table, v domain.View) ([]ResolvedGroup, error) {
	groups := make([]ResolvedGroup, 0, len(v.Groups))
	for _, g := range v.Groups {
		rg, err := ResolveGroup(t, g)
		if err != nil {
			return nil, err
		}
		groups = append(groups, rg)
	}
	return groups, nil
}

// Columns returns the resolved column names of groups with the given role
func Columns(groups []ResolvedGroup, role domain.GroupRole) []string {
	var cols []string
	for _, g := range groups {
		if g.Role == role {
			cols = append(cols, g.Names...)
		}
	}
	return cols
}

// ColumnIndices returns the resolved header positions of groups with the
// given role
func ColumnIndices(groups []ResolvedGroup, role domain.GroupRole) []int {
	var idx []int
	for _, g := range groups {
		if g.Role == role {
			idx = append(idx, g.Indices...)
		}
	}
	return idx
}

// OutcomeIsPercent reports whether every outcome group is percent-typed.
// Mixed outcome typing is not expressible by the completeness filter.
func OutcomeIsPercent(groups []ResolvedGroup) bool {
	seen := false
	for _, g := range groups {
		if g.Role != domain.RoleOutcome {
			continue
		}
		if !g.Percent {
			return false
		}
		seen = true
	}
	return seen
}

// GroupValues parses a record's values for a group, rounding when the group
// asks for whole numbers
func GroupValues(rec domain.Record, g ResolvedGroup) []domain.Number {
	values := ParseNumbers(rec.ValuesAt(g.Indices), g.Percent)
	if g.Round {
		for i, v := range values {
			if v.Valid {
				values[i] = domain.Some(math.Round(v.Value))
			}
		}
	}
	return values
}

// StageLabels returns the configured stage labels when they match the
// group width, otherwise the column names themselves
func StageLabels(stages []string, g ResolvedGroup) []string {
	if len(stages) == len(g.Names) {
		return slices.Clone(stages)
	}
	return slices.Clone(g.Names)
}

// BuildSeries turns one record's group values into a chart series. Deltas
// are computed on the parsed values; Value carries the chart-normalized
// figure. When reference is not nil each point carries the reference
// record's value for the same stage.
func BuildSeries(name, entity string, rec domain.Record, g ResolvedGroup, stages []string, reference *domain.Record) domain.Series {
	raw := GroupValues(rec, g)
	deltas := Variation(raw)
	relative := RelativeVariation(raw)
	labels := StageLabels(stages, g)

	var refs []domain.Number
	if reference != nil {
		refs = GroupValues(*reference, g)
	}

	points := make([]domain.SeriesPoint, len(raw))
	for i, v := range raw {
		points[i] = domain.SeriesPoint{
			Stage:         labels[i],
			Value:         v.Scale(g.ChartDivisor),
			Raw:           v,
			Delta:         deltas[i],
			RelativeDelta: relative[i],
		}
		if refs != nil {
			ref := refs[i]
			points[i].Reference = &ref
		}
	}

	return domain.Series{
		Name:   name,
		Entity: entity,
		Family: g.Key,
		Points: points,
	}
}

// BuildChart assembles the chart of a school against its regional baseline.
// In overlay mode each group gets a school series and, when a baseline
// exists, a regional series. In reference mode only the first group is
// plotted and baseline values ride along on each point.
func BuildChart(v domain.View, groups []ResolvedGroup, school domain.Record, baseline *domain.Record) *domain.ChartView {
	chart := &domain.ChartView{
		Title:  fmt.Sprintf("%s: %s", v.Title, school.School()),
		School: school.School(),
	}
	if len(groups) == 0 {
		return chart
	}
	chart.Stages = StageLabels(v.Stages, groups[0])

	if v.Baseline == domain.BaselineReference {
		g := groups[0]
		chart.Series = append(chart.Series,
			BuildSeries(seriesName(g.Label, domain.EntitySchool), domain.EntitySchool, school, g, v.Stages, baseline))
		return chart
	}

	for _, g := range groups {
		chart.Series = append(chart.Series,
			BuildSeries(seriesName(g.Label, domain.EntitySchool), domain.EntitySchool, school, g, v.Stages, nil))
	}
	if baseline != nil {
		for _, g := range groups {
			chart.Series = append(chart.Series,
				BuildSeries(seriesName(g.Label, domain.EntityRegional), domain.EntityRegional, *baseline, g, v.Stages, nil))
		}
	}
	return chart
}

func seriesName(label, entity string) string {
	if entity == domain.EntityRegional {
		return label + " (Regional)"
	}
	return label + " (Escola)"
}

// SchoolOptions returns the sorted, de-duplicated, non-blank school names
func SchoolOptions(records []domain.Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.School()) == "" {
			continue
		}
		names = append(names, r.School())
	}
	slices.Sort(names)
	return slices.Compact(names)
}
