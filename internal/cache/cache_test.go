package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_EncodesOperationPathAndPosition(t *testing.T) {
	assert.Equal(t, "hover:notes/a.md:3:12", Key("hover", "notes/a.md", 3, 12))
}

func TestCorrelationID_ReturnsDistinctValues(t *testing.T) {
	a := CorrelationID()
	b := CorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
