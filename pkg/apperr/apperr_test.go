package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := errors.Wrap(NotFound(CodeProjectNotFound, "project %s not found", "p1"), "sync shifts")

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, CodeProjectNotFound, CodeOf(err))
	assert.True(t, Is(err, CodeProjectNotFound))
	assert.False(t, Is(err, CodeShiftNotFound))
}

func TestUntypedIsInternal(t *testing.T) {
	err := errors.New("disk on fire")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestErrorMessage(t *testing.T) {
	err := Conflict(CodeAlreadyAssigned, "worker %s is already assigned", "u1")
	assert.Equal(t, "ALREADY_ASSIGNED: worker u1 is already assigned", err.Error())
	assert.Equal(t, "conflict", err.Kind.String())
}
