package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	e := Userf("bad command: %s", "xyz")
	require.Equal(t, "USER: bad command: xyz", e.Error())
	require.False(t, e.Kind.IsFatal())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := IOf(cause, "failed to save %s", "book.xlsx")
	require.ErrorIs(t, e, cause)
	require.Contains(t, e.Error(), "disk full")
}

func TestInternalIsFatal(t *testing.T) {
	e := Internalf("modality stack empty")
	require.True(t, e.Kind.IsFatal())
}
