package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConversionValidation é o resultado do validador relaxado: erros
// críticos bloqueiam a conversão, warnings só baixam o quality score.
type ConversionValidation struct {
	IsValid      bool              `json:"is_valid"`
	Errors       []ValidationError `json:"errors"`
	Warnings     []ValidationError `json:"warnings"`
	QualityScore int               `json:"quality_score"`
}

// Penalidade por categoria de warning presente. Um lead completo
// pontua 100; mais completude nunca baixa o score.
var warningPenalties = map[string]int{
	"email":          15,
	"nif":            10,
	"birth_date":     10,
	"profession":     5,
	"marital_status": 5,
}

type ValidateOptions struct {
	// AllowIncomplete deixa a conversão seguir com warnings. É o modo
	// normal do pipeline; false promove warnings a bloqueantes.
	AllowIncomplete bool
}

// ClientData são os campos confirmados/editados no passo de conversão.
type ClientData struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	ClientType    string `json:"client_type,omitempty"`
	NIF           string `json:"nif,omitempty"`
	Profession    string `json:"profession,omitempty"`
	BirthDate     string `json:"birth_date,omitempty"` // YYYY-MM-DD
	MaritalStatus string `json:"marital_status,omitempty"`
	Observations  string `json:"observations,omitempty"`
}

// ValidateConversion é puro: não toca no banco nem no lead.
func ValidateConversion(data ClientData, opts ValidateOptions) ConversionValidation {
	result := ConversionValidation{QualityScore: 100}

	// Âncoras de identidade: nome e telefone bloqueiam sempre.
	if strings.TrimSpace(data.Name) == "" {
		result.Errors = append(result.Errors, ValidationError{"name", "nome é obrigatório"})
	} else if len(strings.TrimSpace(data.Name)) < 2 {
		result.Errors = append(result.Errors, ValidationError{"name", "nome demasiado curto"})
	}

	if strings.TrimSpace(data.Phone) == "" {
		result.Errors = append(result.Errors, ValidationError{"phone", "telefone é obrigatório"})
	} else if !isValidPhoneNumber(data.Phone) {
		result.Errors = append(result.Errors, ValidationError{"phone", "telefone inválido"})
	}

	// Tudo o resto é warning: regista, penaliza o score, não bloqueia.
	if strings.TrimSpace(data.Email) == "" {
		result.addWarning("email", "email em falta")
	} else if _, err := mail.ParseAddress(data.Email); err != nil {
		result.addWarning("email", "email com formato inválido")
	}

	if strings.TrimSpace(data.NIF) == "" {
		result.addWarning("nif", "NIF em falta")
	} else if !isValidNIF(data.NIF) {
		result.addWarning("nif", "NIF inválido")
	}

	if strings.TrimSpace(data.BirthDate) == "" {
		result.addWarning("birth_date", "data de nascimento em falta")
	} else if !isValidDate(data.BirthDate) {
		result.addWarning("birth_date", "data de nascimento inválida (YYYY-MM-DD)")
	}

	if strings.TrimSpace(data.Profession) == "" {
		result.addWarning("profession", "profissão em falta")
	}

	if strings.TrimSpace(data.MaritalStatus) == "" {
		result.addWarning("marital_status", "estado civil em falta")
	}

	if result.QualityScore < 0 {
		result.QualityScore = 0
	}

	result.IsValid = len(result.Errors) == 0
	if !opts.AllowIncomplete && len(result.Warnings) > 0 {
		result.IsValid = false
	}

	return result
}

func (v *ConversionValidation) addWarning(field, message string) {
	v.Warnings = append(v.Warnings, ValidationError{field, message})
	v.QualityScore -= warningPenalties[field]
}

// Summary condensa os erros críticos numa linha para a mensagem do erro
// de domínio; a lista estruturada segue ao lado para a UI.
func (v ConversionValidation) Summary() string {
	msgs := make([]string, 0, len(v.Errors))
	for _, ve := range v.Errors {
		msgs = append(msgs, ve.Field+" ("+ve.Message+")")
	}
	return "dados insuficientes para converter: " + strings.Join(msgs, ", ")
}

// AuditBlock formata score e warnings para anexar às notas do cliente.
func (v ConversionValidation) AuditBlock(when time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("--- Conversão %s ---\n", when.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Quality score: %d/100\n", v.QualityScore))
	for _, w := range v.Warnings {
		b.WriteString(fmt.Sprintf("Aviso: %s\n", w.Message))
	}
	return b.String()
}

var nonDigits = regexp.MustCompile(`\D`)

// Números portugueses: 9 dígitos; aceita 11 com indicativo 351.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 9 && len(cleaned) <= 11
}

func isValidNIF(nif string) bool {
	cleaned := nonDigits.ReplaceAllString(nif, "")
	if len(cleaned) != 9 {
		return false
	}

	firstDigit := cleaned[0]
	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != firstDigit {
			allEqual = false
			break
		}
	}
	return !allEqual
}

func isValidDate(dateStr string) bool {
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return true
	}
	return false
}
