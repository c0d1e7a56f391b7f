package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := UserError("you broke the rules")
	assert.EqualError(t, err, "you broke the rules")

	var ue UserError
	assert.True(t, errors.As(err, &ue))
	assert.False(t, errors.As(errors.New("other"), &ue))
}
