package config

import "scorepanel/pkg/contracts/domain"

// DefaultViews returns the four dashboard views over the standard workbook.
// A config file may replace them through data.views.
func DefaultViews() []domain.View {
	return []domain.View{
		{
			ID:      domain.ViewRedacao,
			Title:   "Desempenhos em Redação",
			Subject: "redação",
			Sheet:   SheetRedacao,
			Stages:  cloneStrings(RedacaoStages),
			Groups: []domain.ColumnGroup{
				{
					Key:          "participation",
					Label:        "Participação",
					Role:         domain.RoleParticipation,
					Columns:      stageColumns("", RedacaoStages, "Participação (%)"),
					Percent:      true,
					ChartDivisor: 100,
					TableDivisor: 100,
					Format:       domain.FormatPercent,
				},
				{
					Key:          "score",
					Label:        "Notas",
					Role:         domain.RoleOutcome,
					Columns:      stageColumns("", RedacaoStages, "Nota"),
					ChartDivisor: 1000,
					Format:       domain.FormatDecimal,
				},
			},
			Schools:               domain.SchoolsFromComplete,
			Baseline:              domain.BaselineOverlay,
			Chart:                 true,
			TableIncludesBaseline: true,
		},
		{
			ID:      domain.ViewObjetivas,
			Title:   "Desempenhos nas Provas Objetivas",
			Subject: "objetivas",
			Sheet:   SheetObjetivas,
			Stages:  cloneStrings(ObjetivasStages),
			Groups: []domain.ColumnGroup{
				{
					Key:          "participation",
					Label:        "Participação",
					Role:         domain.RoleParticipation,
					Columns:      stageColumns("Objetivas - ", ObjetivasStages, "Participação (%)"),
					Percent:      true,
					ChartDivisor: 100,
					TableDivisor: 100,
					Format:       domain.FormatPercent,
				},
				{
					Key:          "accuracy",
					Label:        "Acertos",
					Role:         domain.RoleOutcome,
					Columns:      stageColumns("Objetivas - ", ObjetivasStages, "Acertos (%)"),
					Percent:      true,
					ChartDivisor: 100,
					TableDivisor: 100,
					Format:       domain.FormatPercent,
				},
			},
			Schools:               domain.SchoolsFromComplete,
			Baseline:              domain.BaselineOverlay,
			Chart:                 true,
			TableIncludesBaseline: true,
		},
		{
			ID:      domain.ViewParticipacao,
			Title:   "Tempos e Volumes de Participação nas Aplicações",
			Subject: "tempos/volumes de participação",
			Sheet:   SheetParticipacao,
			Stages:  cloneStrings(RedacaoStages),
			Groups: []domain.ColumnGroup{
				{
					// columns D to I
					Key:        "volume",
					Label:      "Valores",
					Role:       domain.RoleOutcome,
					FirstIndex: 3,
					Count:      6,
					Round:      true,
					Format:     domain.FormatInteger,
				},
			},
			Schools:         domain.SchoolsFromMatching,
			Baseline:        domain.BaselineReference,
			Chart:           true,
			TableAllColumns: true,
		},
		{
			ID:      domain.ViewAcessos,
			Title:   "Detalhamento de Acessos",
			Subject: "acessos detalhados",
			Sheet:   SheetAcessos,
			Groups: []domain.ColumnGroup{
				{
					// columns C to J
					Key:          "access",
					Label:        "Acessos",
					Role:         domain.RoleOutcome,
					FirstIndex:   2,
					Count:        8,
					Percent:      true,
					ChartDivisor: 100,
					TableDivisor: 100,
					Format:       domain.FormatPercent,
				},
			},
			Schools:         domain.SchoolsNone,
			TableAllColumns: true,
		},
	}
}

// stageColumns builds "<prefix><stage>: <metric>" column names
func stageColumns(prefix string, stages []string, metric string) []string {
	cols := make([]string, len(stages))
	for i, s := range stages {
		cols[i] = prefix + s + ": " + metric
	}
	return cols
}

func cloneStrings(s []string) []string {
	return append([]string(nil), s...)
}
