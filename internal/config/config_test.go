package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert.Equal(t, "fallback", Get("CFG_TEST_UNSET", "fallback"))

	t.Setenv("CFG_TEST_STR", "value")
	assert.Equal(t, "value", Get("CFG_TEST_STR", "fallback"))
}

func TestGetInt(t *testing.T) {
	assert.Equal(t, 7, GetInt("CFG_TEST_UNSET", 7))

	t.Setenv("CFG_TEST_INT", "25")
	assert.Equal(t, 25, GetInt("CFG_TEST_INT", 7))

	t.Setenv("CFG_TEST_INT", "not-a-number")
	assert.Equal(t, 7, GetInt("CFG_TEST_INT", 7))
}

func TestGetBool(t *testing.T) {
	assert.True(t, GetBool("CFG_TEST_UNSET", true))
	assert.False(t, GetBool("CFG_TEST_UNSET", false))

	t.Setenv("CFG_TEST_BOOL", "false")
	assert.False(t, GetBool("CFG_TEST_BOOL", true))

	t.Setenv("CFG_TEST_BOOL", "1")
	assert.True(t, GetBool("CFG_TEST_BOOL", false))

	t.Setenv("CFG_TEST_BOOL", "banana")
	assert.True(t, GetBool("CFG_TEST_BOOL", true))
}
