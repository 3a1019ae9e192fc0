package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractionResult(t *testing.T) {
	ok := Success(CategoryMapFrom(map[string][]string{"a": {"1"}}, nil))
	assert.True(t, ok.OK())
	assert.NoError(t, ok.Err())
	assert.Equal(t, []string{"1"}, ok.Map().Values("a"))

	empty := Success(nil)
	assert.True(t, empty.OK())
	assert.True(t, empty.Map().IsEmpty())

	failed := Failure(ErrParse)
	assert.False(t, failed.OK())
	assert.Nil(t, failed.Map())
	assert.True(t, errors.Is(failed.Err(), ErrParse))

	var unset ExtractionResult
	assert.False(t, unset.OK())
	assert.Error(t, unset.Err())
}
