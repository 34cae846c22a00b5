package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

// Weights são injetáveis: o "scoring inteligente" do CRM é aritmética
// ponderada sobre completude, recência e origem do lead, sem treino.
type Weights struct {
	Completeness float64
	Recency      float64
	Source       float64
	Budget       float64
}

func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.40,
		Recency:      0.25,
		Source:       0.20,
		Budget:       0.15,
	}
}

// Origens com histórico de melhor taxa de conversão pontuam mais alto.
var sourceScores = map[string]float64{
	"referencia": 1.0,
	"whatsapp":   0.8,
	"website":    0.6,
	"portal":     0.5,
	"facebook":   0.4,
	"instagram":  0.4,
}

const defaultSourceScore = 0.3

type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// ScoreLead devolve 0..100. Fatores em 0..1, combinados pelo peso;
// pesos a zero desligam o fator.
func (e *Engine) ScoreLead(lead *entity.Lead) int {
	type factor struct {
		weight float64
		value  float64
	}

	factors := []factor{
		{e.weights.Completeness, completeness01(lead)},
		{e.weights.Recency, recency01(lead)},
		{e.weights.Source, source01(lead.Source)},
		{e.weights.Budget, budget01(lead.BudgetRange)},
	}

	var sumW, sum float64
	for _, f := range factors {
		if f.weight <= 0 {
			continue
		}
		sumW += f.weight
		sum += f.weight * f.value
	}

	// Sem pesos ativos o score é neutro.
	if sumW <= 0 {
		return 50
	}

	return int(math.Round(sum / sumW * 100))
}

func completeness01(lead *entity.Lead) float64 {
	fields := []string{lead.Name, lead.Phone, lead.Email, lead.InterestType, lead.BudgetRange}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// Leads esfriam: contacto na última semana vale 1, decai linearmente
// até zero aos 30 dias.
func recency01(lead *entity.Lead) float64 {
	ref := lead.CreatedAt
	if lead.LastContactAt != nil {
		ref = *lead.LastContactAt
	}

	days := time.Since(ref).Hours() / 24
	switch {
	case days <= 7:
		return 1
	case days >= 30:
		return 0
	default:
		return 1 - (days-7)/23
	}
}

func source01(source string) float64 {
	if s, ok := sourceScores[strings.ToLower(strings.TrimSpace(source))]; ok {
		return s
	}
	return defaultSourceScore
}

// Orçamento declarado é sinal de intenção; buckets altos pesam mais.
func budget01(budgetRange string) float64 {
	if strings.TrimSpace(budgetRange) == "" {
		return 0.2
	}
	value := entity.ValueFromBudgetRange(budgetRange)
	// Normaliza contra o topo da tabela (1.25M).
	v := float64(value) / 1250000
	if v > 1 {
		v = 1
	}
	return 0.5 + 0.5*v
}
