package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateConversionCompleteDataScores100(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name:          "Ana Silva",
		Phone:         "912 345 678",
		Email:         "ana@example.com",
		NIF:           "123456789",
		Profession:    "Engenheira",
		BirthDate:     "1990-05-15",
		MaritalStatus: "solteira",
	}, ValidateOptions{AllowIncomplete: true})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 100, result.QualityScore)
}

func TestValidateConversionMissingNameIsCritical(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name:  "",
		Phone: "912345678",
	}, ValidateOptions{AllowIncomplete: true})

	assert.False(t, result.IsValid)
	assert.Equal(t, "name", result.Errors[0].Field)
}

func TestValidateConversionMissingPhoneIsCritical(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name: "Ana Silva",
	}, ValidateOptions{AllowIncomplete: true})

	assert.False(t, result.IsValid)
	assert.Equal(t, "phone", result.Errors[0].Field)
}

func TestValidateConversionInvalidPhoneIsCritical(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name:  "Ana Silva",
		Phone: "12",
	}, ValidateOptions{AllowIncomplete: true})

	assert.False(t, result.IsValid)
	assert.Equal(t, "phone", result.Errors[0].Field)
}

// Tudo que não é nome/telefone é warning: não bloqueia, só baixa o
// score.
func TestValidateConversionWarningsNeverBlock(t *testing.T) {
	cases := []ClientData{
		{Name: "Ana Silva", Phone: "912345678"},
		{Name: "Ana Silva", Phone: "912345678", Email: "invalido"},
		{Name: "Ana Silva", Phone: "912345678", NIF: "111111111"},
		{Name: "Ana Silva", Phone: "912345678", BirthDate: "15/05/1990"},
	}

	for _, data := range cases {
		result := ValidateConversion(data, ValidateOptions{AllowIncomplete: true})
		assert.True(t, result.IsValid, "dados %+v deviam passar", data)
		assert.NotEmpty(t, result.Warnings)
		assert.Less(t, result.QualityScore, 100)
	}
}

// Mais completude nunca baixa o score.
func TestValidateConversionScoreIsMonotonic(t *testing.T) {
	base := ClientData{Name: "Ana Silva", Phone: "912345678"}
	baseScore := ValidateConversion(base, ValidateOptions{AllowIncomplete: true}).QualityScore

	withEmail := base
	withEmail.Email = "ana@example.com"
	emailScore := ValidateConversion(withEmail, ValidateOptions{AllowIncomplete: true}).QualityScore

	withMore := withEmail
	withMore.NIF = "123456789"
	withMore.Profession = "Engenheira"
	moreScore := ValidateConversion(withMore, ValidateOptions{AllowIncomplete: true}).QualityScore

	assert.Greater(t, emailScore, baseScore)
	assert.Greater(t, moreScore, emailScore)
}

func TestValidateConversionStrictModeBlocksOnWarnings(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name:  "Ana Silva",
		Phone: "912345678",
	}, ValidateOptions{AllowIncomplete: false})

	assert.False(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Warnings)
}

func TestAuditBlockListsScoreAndWarnings(t *testing.T) {
	result := ValidateConversion(ClientData{
		Name:  "Ana Silva",
		Phone: "912345678",
	}, ValidateOptions{AllowIncomplete: true})

	block := result.AuditBlock(time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC))

	assert.Contains(t, block, "2026-03-10 14:30")
	assert.Contains(t, block, "Quality score")
	assert.Contains(t, block, "email em falta")
}

func TestIsValidNIFRejectsRepeatedDigits(t *testing.T) {
	assert.False(t, isValidNIF("999999999"))
	assert.False(t, isValidNIF("12345"))
	assert.True(t, isValidNIF("289 123 456"))
}
