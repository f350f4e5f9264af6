package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateJWT(t *testing.T) {
	assert.True(t, ValidateJWT("a.b.c"))
	assert.False(t, ValidateJWT(""))
	assert.False(t, ValidateJWT("a.b"))
	assert.False(t, ValidateJWT("a..c"))
	assert.False(t, ValidateJWT("a.b.c.d"))
}
