package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

// Lead com telefone deduplica pelo telefone; lead só com email grava
// phone NULL e deduplica pelo email, para dois contactos sem telefone
// nunca caírem no mesmo registo.
func TestLeadUpsertKeyedByPhoneOrEmail(t *testing.T) {
	withPhone := &entity.Lead{Name: "Ana Silva", Phone: "912345678"}
	assert.Contains(t, leadUpsertQuery(withPhone), "ON CONFLICT (phone)")

	emailOnly := &entity.Lead{Name: "Bruno Costa", Email: "bruno@example.com"}
	assert.Contains(t, leadUpsertQuery(emailOnly), "ON CONFLICT (email) WHERE phone IS NULL")

	blankPhone := &entity.Lead{Name: "Carla Nunes", Phone: "   ", Email: "carla@example.com"}
	assert.Contains(t, leadUpsertQuery(blankPhone), "ON CONFLICT (email) WHERE phone IS NULL")
}

// Telefone vazio vira NULL no bind: NULLs não colidem no índice único.
func TestNullStringEmptyBindsAsNull(t *testing.T) {
	assert.Nil(t, nullString(""))

	bound := nullString("912345678")
	assert.NotNil(t, bound)
	assert.Equal(t, "912345678", *bound)
}
