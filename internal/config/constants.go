package config

import (
	"time"

	"scorepanel/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "ScorePanel"
	AppVersion = contracts.Version

	// Data source
	DefaultSourcePath = "Dados_RJ.xlsx"

	// Administrative regional that groups prison and juvenile detention
	// schools; it has no comparable aggregate row and is hidden by default
	ExcludedRegionalPrisonUnits = "DE UNIDADES ESCOLARES PRISIONAIS E SOCIOEDUCATIVAS"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Request handling
	DefaultRequestTimeout = 60 * time.Second
	MaxSearchLength       = 200
)

// Source workbook sheets
const (
	SheetRedacao      = "Dados_Redação"
	SheetObjetivas    = "Dados_Objetivas"
	SheetParticipacao = "Dados_Participação"
	SheetAcessos      = "Dados_Acesso_Detalhado"
)

// Redaction stages in chronological order
var RedacaoStages = []string{
	"1º Simulado",
	"1º Teste de Redação",
	"2º Teste de Redação",
	"2º Simulado",
	"3º Teste de Redação",
	"4º Teste de Redação",
}

// Objective-test stages in chronological order
var ObjetivasStages = []string{
	"1º Simulado",
	"2º Simulado",
}
