package usecase

// Códigos de erro de domínio devolvidos pelo pipeline.
const (
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeLeadNotFound     = "LEAD_NOT_FOUND"
	CodeAlreadyConverted = "ALREADY_CONVERTED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeDatabaseError    = "DATABASE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
	// Validation acompanha erros VALIDATION_ERROR com a lista estruturada
	// de campos; nil para os restantes códigos.
	Validation *ConversionValidation
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// DomainCode extrai o código de um *DomainError, ou "" para qualquer
// outro erro.
func DomainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
