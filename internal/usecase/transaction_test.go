package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionExecutesInOrder(t *testing.T) {
	var order []string

	txn := NewTransaction()
	txn.AddOperation("a", func(ctx context.Context) error {
		order = append(order, "a")
		return nil
	})
	txn.AddOperation("b", func(ctx context.Context) error {
		order = append(order, "b")
		return nil
	})

	err := txn.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

// Compensações correm em ordem inversa, só para operações já
// executadas.
func TestTransactionRollsBackInReverseOrder(t *testing.T) {
	var events []string

	txn := NewTransaction()
	txn.AddOperation("create_client", func(ctx context.Context) error {
		events = append(events, "create_client")
		return nil
	})
	txn.AddCompensation("delete_client", func(ctx context.Context) error {
		events = append(events, "delete_client")
		return nil
	})
	txn.AddOperation("create_opportunity", func(ctx context.Context) error {
		events = append(events, "create_opportunity")
		return nil
	})
	txn.AddCompensation("delete_opportunity", func(ctx context.Context) error {
		events = append(events, "delete_opportunity")
		return nil
	})
	txn.AddOperation("mark_lead", func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := txn.Execute(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mark_lead")
	assert.Equal(t, []string{
		"create_client",
		"create_opportunity",
		"delete_opportunity",
		"delete_client",
	}, events)
}

func TestTransactionFirstOperationFailureCompensatesNothing(t *testing.T) {
	compensated := false

	txn := NewTransaction()
	txn.AddOperation("create_client", func(ctx context.Context) error {
		return errors.New("down")
	})
	txn.AddCompensation("delete_client", func(ctx context.Context) error {
		compensated = true
		return nil
	})

	err := txn.Execute(context.Background())

	assert.Error(t, err)
	assert.False(t, compensated)
}

// Erro da operação original é preservado para errors.Is do chamador.
func TestTransactionWrapsOperationError(t *testing.T) {
	sentinel := errors.New("já convertido")

	txn := NewTransaction()
	txn.AddOperation("mark_lead", func(ctx context.Context) error {
		return sentinel
	})

	err := txn.Execute(context.Background())

	assert.True(t, errors.Is(err, sentinel))
}
