package dataprocessing

import "scorepanel/pkg/contracts/domain"

var (
	redacaoParticipation = []string{"P1", "P2"}
	redacaoScores        = []string{"N1", "N2"}
)

func newTable(name string, header []string, rows ...[]string) *domain.Table {
	t := &domain.Table{Name: name, Columns: header}
	for _, r := range rows {
		t.Rows = append(t.Rows, domain.NewRecord(header, r))
	}
	return t
}

// sampleTable has one aggregate row, one complete school, one school missing
// a score and one school from another regional
func sampleTable() *domain.Table {
	header := []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool, "P1", "P2", "N1", "N2"}
	return newTable("Dados_Redação", header,
		[]string{"100", "Regional X", "REGIONAL X", "80,00%", "70,00%", "600", "650"},
		[]string{"101", "Regional X", "Escola A", "90,50%", "85,12%", "700", "720,5"},
		[]string{"102", "Regional X", "Escola B", "50%", "60%", "500", ""},
		[]string{"200", "Regional Y", "Escola C", "10%", "20%", "300", "400"},
	)
}

func sampleView() domain.View {
	return domain.View{
		ID:     domain.ViewRedacao,
		Title:  "Redação",
		Sheet:  "Dados_Redação",
		Stages: []string{"1º Simulado", "1º Teste de Redação"},
		Groups: []domain.ColumnGroup{
			{Key: "participation", Label: "Participação", Role: domain.RoleParticipation, Columns: redacaoParticipation,
				Percent: true, ChartDivisor: 100, TableDivisor: 100, Format: domain.FormatPercent},
			{Key: "score", Label: "Notas", Role: domain.RoleOutcome, Columns: redacaoScores,
				ChartDivisor: 1000, Format: domain.FormatDecimal},
		},
		Schools:               domain.SchoolsFromComplete,
		Baseline:              domain.BaselineOverlay,
		Chart:                 true,
		TableIncludesBaseline: true,
	}
}
