package admission

import (
	"context"
	"fmt"
	"math/rand/v2"

	apperrors "admissions/internal/common/errors"
	"admissions/internal/store"
)

const (
	StudentIDPrefix = "RAC"
	studentIDMin    = 100000
	studentIDMax    = 999999
)

// IDSource yields candidate student ids. Candidates are not guaranteed unique.
type IDSource interface {
	Next() string
}

type IDSourceFunc func() string

func (f IDSourceFunc) Next() string { return f() }

// RandomIDs draws RAC followed by six random digits.
type RandomIDs struct{}

func (RandomIDs) Next() string {
	return FormatStudentID(studentIDMin + rand.IntN(studentIDMax-studentIDMin+1))
}

func FormatStudentID(n int) string {
	return fmt.Sprintf("%s%06d", StudentIDPrefix, n)
}

// allocateStudentID draws candidates until one has no stored record.
// Two concurrent submissions can still race between the check and the write.
func allocateStudentID(ctx context.Context, ids IDSource, st store.Store, maxAttempts int) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := ids.Next()
		taken, err := st.Exists(ctx, store.ApplicationKey(id))
		if err != nil {
			return "", apperrors.NewApplicationPersistFailedError(fmt.Errorf("check student id: %w", err))
		}
		if !taken {
			return id, nil
		}
	}
	return "", apperrors.NewStudentIDExhaustedError(maxAttempts)
}
