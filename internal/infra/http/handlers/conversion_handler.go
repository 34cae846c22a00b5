package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/infra/http/middleware"
	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/usecase"
)

type ConversionHandler struct {
	ConvertUC *usecase.ConvertLeadUseCase
}

func NewConversionHandler(uc *usecase.ConvertLeadUseCase) *ConversionHandler {
	return &ConversionHandler{ConvertUC: uc}
}

// Request devolve o snapshot do lead e o rascunho de cliente para o
// passo de confirmação da UI. Não escreve nada.
func (h *ConversionHandler) Request(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	output, err := h.ConvertUC.RequestConversion(r.Context(), leadID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"lead":         output.Lead,
		"client_draft": output.ClientDraft,
	})
}

// Commit executa a conversão com os dados confirmados.
func (h *ConversionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var input usecase.CommitConversionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid JSON",
		})
		return
	}
	input.LeadID = leadID

	result, err := h.ConvertUC.CommitConversion(r.Context(), input)
	if err != nil {
		reason := usecase.DomainCode(err)
		if reason == "" {
			reason = usecase.CodeDatabaseError
		}
		middleware.RecordConversionFailure(reason)
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadConverted()
	writeJSON(w, http.StatusCreated, result)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeUseCaseError mapeia os erros discriminados do pipeline em
// respostas HTTP. Falhas de validação levam a lista estruturada para a
// UI renderizar inline; AlreadyConverted é 409, não 500: é um desfecho
// esperado.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotAuthenticated:
			status = http.StatusUnauthorized
		case usecase.CodeLeadNotFound:
			status = http.StatusNotFound
		case usecase.CodeAlreadyConverted:
			status = http.StatusConflict
		case usecase.CodeValidationError:
			status = http.StatusUnprocessableEntity
		}
		body := map[string]interface{}{
			"success": false,
			"error":   de.Code,
			"message": de.Message,
		}
		if de.Validation != nil {
			body["validation_errors"] = de.Validation.Errors
			body["warnings"] = de.Validation.Warnings
		}
		writeJSON(w, status, body)
		return
	}

	// Erro técnico: a UI mostra o banner genérico de "tente novamente",
	// porque pode já existir estado parcial compensado.
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   usecase.CodeDatabaseError,
		"message": "Falha na conversão, por favor tente novamente",
	})
}
