package domain

// ViewID identifies a report view (a dashboard tab)
type ViewID string

const (
	ViewRedacao      ViewID = "redacao"
	ViewObjetivas    ViewID = "objetivas"
	ViewParticipacao ViewID = "participacao"
	ViewAcessos      ViewID = "acessos"
)

// GroupRole tells the completeness filter how a column group is parsed
type GroupRole string

const (
	// RoleParticipation groups are always parsed as percentages
	RoleParticipation GroupRole = "participation"
	// RoleOutcome groups are parsed with the group's own percent flag
	RoleOutcome GroupRole = "outcome"
)

// ValueFormat selects the display rule of a numeric column
type ValueFormat string

const (
	FormatPercent ValueFormat = "percent" // fraction shown as 85,12%
	FormatDecimal ValueFormat = "decimal" // 202,71
	FormatInteger ValueFormat = "integer" // 1234
)

// SchoolSource selects which record set feeds the school selector
type SchoolSource string

const (
	SchoolsFromComplete SchoolSource = "complete"
	SchoolsFromMatching SchoolSource = "matching"
	SchoolsNone         SchoolSource = "none"
)

// BaselineMode selects how the regional row appears on the chart
type BaselineMode string

const (
	BaselineOverlay   BaselineMode = "overlay"   // separate dotted series
	BaselineReference BaselineMode = "reference" // per-point reference value
)

// ColumnGroup is an ordered set of stage columns forming one metric family.
// Columns are named explicitly, or positionally with FirstIndex and Count
// when the sheet header is not fixed.
type ColumnGroup struct {
	Key          string      `json:"key" yaml:"key"`
	Label        string      `json:"label" yaml:"label"`
	Role         GroupRole   `json:"role" yaml:"role"`
	Columns      []string    `json:"columns,omitempty" yaml:"columns"`
	FirstIndex   int         `json:"first_index,omitempty" yaml:"first_index"`
	Count        int         `json:"count,omitempty" yaml:"count"`
	Percent      bool        `json:"percent" yaml:"percent"`
	ChartDivisor float64     `json:"chart_divisor,omitempty" yaml:"chart_divisor"`
	TableDivisor float64     `json:"table_divisor,omitempty" yaml:"table_divisor"`
	Round        bool        `json:"round,omitempty" yaml:"round"`
	Format       ValueFormat `json:"format" yaml:"format"`
}

// Positional reports whether the group is resolved by column position
func (g ColumnGroup) Positional() bool {
	return len(g.Columns) == 0 && g.Count > 0
}

// View describes one report tab over one sheet
type View struct {
	ID                    ViewID        `json:"id" yaml:"id"`
	Title                 string        `json:"title" yaml:"title"`
	Subject               string        `json:"subject,omitempty" yaml:"subject"`
	Sheet                 string        `json:"sheet" yaml:"sheet"`
	Stages                []string      `json:"stages,omitempty" yaml:"stages"`
	Groups                []ColumnGroup `json:"groups" yaml:"groups"`
	Schools               SchoolSource  `json:"schools" yaml:"schools"`
	Baseline              BaselineMode  `json:"baseline,omitempty" yaml:"baseline"`
	Chart                 bool          `json:"chart" yaml:"chart"`
	TableAllColumns       bool          `json:"table_all_columns" yaml:"table_all_columns"`
	TableIncludesBaseline bool          `json:"table_includes_baseline" yaml:"table_includes_baseline"`
}

// GroupsByRole returns the groups with the given role, in declaration order
func (v View) GroupsByRole(role GroupRole) []ColumnGroup {
	var out []ColumnGroup
	for _, g := range v.Groups {
		if g.Role == role {
			out = append(out, g)
		}
	}
	return out
}
