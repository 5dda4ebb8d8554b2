package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/store"
)

// FormatSequence renders n as TID-001, TID-042, TID-1000 ...
func FormatSequence(n int) string {
	return fmt.Sprintf("%s-%0*d", constants.SequencePrefix, constants.SequenceMinWidth, n)
}

// ParseSequence extracts the numeric suffix of a <prefix>-<integer> id.
func ParseSequence(id string) (int, error) {
	prefix, digits, ok := strings.Cut(id, "-")
	if !ok || prefix == "" || digits == "" {
		return 0, &MalformedSequenceError{SequenceID: id}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || strings.HasPrefix(digits, "+") {
		return 0, &MalformedSequenceError{SequenceID: id}
	}
	return n, nil
}

// Allocate computes the next sequence id for requester from the most recently
// created record. It is only safe inside a store transaction that also performs
// the insert; the unique (requester, sequence_id) index catches any race.
func Allocate(ctx context.Context, repo store.TransactionRepository, requester string) (string, error) {
	latest, err := repo.FindLatestByRequester(ctx, requester)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return FormatSequence(1), nil
		}
		return "", err
	}

	n, err := ParseSequence(latest.SequenceID)
	if err != nil {
		return "", err
	}
	return FormatSequence(n + 1), nil
}
