package domain

// Selection is one user interaction: a regional unit, a view and optionally a
// school picked from the selector and a free-text search term.
type Selection struct {
	Regional string `json:"regional" validate:"required,max=300"`
	View     ViewID `json:"view" validate:"required,view"`
	School   string `json:"school,omitempty" validate:"max=300"`
	Search   string `json:"search,omitempty" validate:"max=200"`
}

// NoticeLevel classifies a user-visible message
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown alongside a report
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// SchoolOptions lists the schools selectable for a regional and view
type SchoolOptions struct {
	Regional string   `json:"regional"`
	View     ViewID   `json:"view"`
	Schools  []string `json:"schools"`
	Notices  []Notice `json:"notices,omitempty"`
}

// SeriesPoint is one stage of a chart series
type SeriesPoint struct {
	Stage         string  `json:"stage"`
	Value         Number  `json:"value"`
	Raw           Number  `json:"raw"`
	Delta         float64 `json:"delta"`
	RelativeDelta Number  `json:"relative_delta"`
	Reference     *Number `json:"reference,omitempty"`
}

// Series entities
const (
	EntitySchool   = "school"
	EntityRegional = "regional"
)

// Series is one line of a chart: one entity and one metric family
type Series struct {
	Name   string        `json:"name"`
	Entity string        `json:"entity"`
	Family string        `json:"family"`
	Points []SeriesPoint `json:"points"`
}

// ChartView is the chart of a school against its regional baseline
type ChartView struct {
	Title  string   `json:"title"`
	School string   `json:"school"`
	Stages []string `json:"stages"`
	Series []Series `json:"series"`
}

// Cell is one table cell with its raw text, canonical value and display text
type Cell struct {
	Raw     string `json:"raw"`
	Value   Number `json:"value"`
	Display string `json:"display"`
	Numeric bool   `json:"numeric"`
}

// TableRow is one record of a table view
type TableRow struct {
	Code     string `json:"code"`
	School   string `json:"school"`
	Baseline bool   `json:"baseline,omitempty"`
	Cells    []Cell `json:"cells"`
}

// ColumnSummary holds statistics of a numeric column over school rows
type ColumnSummary struct {
	Column string      `json:"column"`
	Format ValueFormat `json:"format"`
	Count  int         `json:"count"`
	Mean   Number      `json:"mean"`
	Median Number      `json:"median"`
	Min    Number      `json:"min"`
	Max    Number      `json:"max"`
}

// TableView is the per-regional table of a view
type TableView struct {
	Title   string          `json:"title"`
	Columns []string        `json:"columns"`
	Rows    []TableRow      `json:"rows"`
	Summary []ColumnSummary `json:"summary,omitempty"`
}

// Report is everything produced for one interaction with a view
type Report struct {
	Selection Selection  `json:"selection"`
	Title     string     `json:"title"`
	Schools   []string   `json:"schools"`
	Chart     *ChartView `json:"chart,omitempty"`
	Table     *TableView `json:"table,omitempty"`
	Notices   []Notice   `json:"notices,omitempty"`
}

// AddNotice appends a message to the report
func (r *Report) AddNotice(level NoticeLevel, message string) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: message})
}
