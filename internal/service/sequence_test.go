package service

import (
	"context"
	"testing"

	"github.com/hance08/txgate/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSequence(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "TID-001"},
		{42, "TID-042"},
		{999, "TID-999"},
		{1000, "TID-1000"},
		{123456, "TID-123456"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSequence(tt.n))
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{id: "TID-001", want: 1},
		{id: "TID-1000", want: 1000},
		{id: "OLD-7", want: 7},
		{id: "TID", wantErr: true},
		{id: "TID-", wantErr: true},
		{id: "-001", wantErr: true},
		{id: "TID-abc", wantErr: true},
		{id: "TID--5", wantErr: true},
		{id: "TID-+5", wantErr: true},
		{id: "TID-1-2", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, err := ParseSequence(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedSequence)
				var mse *MalformedSequenceError
				require.ErrorAs(t, err, &mse)
				assert.Equal(t, tt.id, mse.SequenceID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestAllocate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seq, err := Allocate(ctx, env.store, "alice")
	require.NoError(t, err)
	assert.Equal(t, "TID-001", seq)

	insert := func(requester, seq string) {
		t.Helper()
		require.NoError(t, env.store.InsertTransaction(ctx, &model.Transaction{
			SequenceID: seq, Requester: requester, Payee: "-", Amount: decimal.NewFromInt(1),
			AmountWords: "one", Date: "2024-01-01", Time: "10:00", Status: model.StatusPending,
		}))
	}

	insert("alice", "TID-999")
	seq, err = Allocate(ctx, env.store, "alice")
	require.NoError(t, err)
	assert.Equal(t, "TID-1000", seq, "width grows past three digits")

	seq, err = Allocate(ctx, env.store, "bob")
	require.NoError(t, err)
	assert.Equal(t, "TID-001", seq)

	insert("bob", "garbage")
	_, err = Allocate(ctx, env.store, "bob")
	assert.ErrorIs(t, err, ErrMalformedSequence)
}
