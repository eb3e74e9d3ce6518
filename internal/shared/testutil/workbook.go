package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"scorepanel/internal/config"
	"scorepanel/pkg/contracts/domain"
)

// Sheet is one worksheet of a fixture workbook; the first row is the header
type Sheet struct {
	Name string
	Rows [][]string
}

// Fixture names shared by the package tests
const (
	RegionalX      = "Regional X"
	RegionalY      = "Regional Y"
	BaselineX      = "REGIONAL X"
	CompleteSchool = "Escola A"
	PartialSchool  = "Escola B"
	OtherSchool    = "Escola C"
)

// WriteWorkbook saves sheets to an .xlsx file under t.TempDir and returns
// its path. Every cell is written as text, the way the source workbook
// stores its locale-formatted numbers.
func WriteWorkbook(t *testing.T, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %q: %v", s.Name, err)
		}

		for r, row := range s.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(s.Name, cell, &cells); err != nil {
				t.Fatalf("write row %d of %q: %v", r+1, s.Name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "Dados_RJ.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// DashboardSheets returns the four report sheets for two regionals.
// In Regional X the aggregate row and Escola A are complete and Escola B
// lacks its last redação score; Regional Y holds Escola C. The prison units
// regional appears so that exclusion can be observed.
func DashboardSheets() []Sheet {
	return []Sheet{
		RedacaoSheet(),
		ObjetivasSheet(),
		ParticipacaoSheet(),
		AcessosSheet(),
	}
}

// RedacaoSheet returns the essay sheet
func RedacaoSheet() Sheet {
	header := []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool}
	for _, s := range config.RedacaoStages {
		header = append(header, s+": Participação (%)")
	}
	for _, s := range config.RedacaoStages {
		header = append(header, s+": Nota")
	}

	return Sheet{
		Name: config.SheetRedacao,
		Rows: [][]string{
			header,
			join([]string{"100", RegionalX, BaselineX},
				[]string{"80,00%", "75,50%", "70,00%", "72,25%", "68,00%", "66,10%"},
				[]string{"600", "610,5", "620", "630", "640", "650"}),
			join([]string{"101", RegionalX, CompleteSchool},
				[]string{"90,50%", "85,12%", "88,00%", "91,00%", "87,30%", "89,90%"},
				[]string{"700", "710", "720,5", "730", "740", "750"}),
			join([]string{"102", RegionalX, PartialSchool},
				[]string{"50%", "60%", "55%", "58%", "61%", "63%"},
				[]string{"500", "510", "520", "530", "540", ""}),
			join([]string{"200", RegionalY, OtherSchool},
				[]string{"10%", "20%", "30%", "40%", "50%", "60%"},
				[]string{"300", "400", "500", "600", "700", "800"}),
			join([]string{"300", config.ExcludedRegionalPrisonUnits, "Unidade Prisional"},
				[]string{"1%", "2%", "3%", "4%", "5%", "6%"},
				[]string{"100", "100", "100", "100", "100", "100"}),
		},
	}
}

// ObjetivasSheet returns the objective tests sheet
func ObjetivasSheet() Sheet {
	header := []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool}
	for _, s := range config.ObjetivasStages {
		header = append(header, "Objetivas - "+s+": Participação (%)")
	}
	for _, s := range config.ObjetivasStages {
		header = append(header, "Objetivas - "+s+": Acertos (%)")
	}

	return Sheet{
		Name: config.SheetObjetivas,
		Rows: [][]string{
			header,
			{"100", RegionalX, BaselineX, "70%", "72%", "45,5%", "48%"},
			{"101", RegionalX, CompleteSchool, "80%", "82%", "55%", "58,25%"},
			{"102", RegionalX, PartialSchool, "60%", "62%", "", "40%"},
			{"200", RegionalY, OtherSchool, "30%", "32%", "35%", "38%"},
		},
	}
}

// ParticipacaoSheet returns the participation volume sheet; its numeric
// columns are D through I
func ParticipacaoSheet() Sheet {
	header := []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool}
	for _, s := range config.RedacaoStages {
		header = append(header, s+": Participantes")
	}

	return Sheet{
		Name: config.SheetParticipacao,
		Rows: [][]string{
			header,
			{"100", RegionalX, BaselineX, "1.200", "1.150", "1.100", "1.180", "1.090", "1.050"},
			{"101", RegionalX, CompleteSchool, "120,4", "118", "115", "119", "110", "108"},
			{"102", RegionalX, PartialSchool, "80", "", "75", "78", "70", "69"},
			{"200", RegionalY, OtherSchool, "50", "51", "52", "53", "54", "55"},
		},
	}
}

// AcessosSheet returns the access detail sheet; its numeric columns are
// C through J
func AcessosSheet() Sheet {
	header := []string{domain.ColumnRegional, domain.ColumnSchool}
	for i := 1; i <= 8; i++ {
		header = append(header, "Semana "+string(rune('0'+i)))
	}

	return Sheet{
		Name: config.SheetAcessos,
		Rows: [][]string{
			header,
			{RegionalX, BaselineX, "50%", "51%", "52%", "53%", "54%", "55%", "56%", "57%"},
			{RegionalX, CompleteSchool, "60%", "61%", "62%", "63%", "64%", "65%", "66%", "67%"},
			{RegionalX, PartialSchool, "40%", "41%", "", "43%", "44%", "45%", "46%", "47%"},
			{RegionalY, OtherSchool, "10%", "11%", "12%", "13%", "14%", "15%", "16%", "17%"},
		},
	}
}

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
