package chaterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Classified(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("no access"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.True(t, Is(err, KindForbidden))
}

func TestKindOf_UnclassifiedDefaultsToPersistence(t *testing.T) {
	assert.Equal(t, KindPersistence, KindOf(errors.New("boom")))
}

func TestUnwrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("write failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "write failed")
}
