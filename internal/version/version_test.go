package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullInfo(t *testing.T) {
	info := FullInfo()
	assert.True(t, strings.HasPrefix(info, Version+" (commit: "), info)
	assert.NotEmpty(t, Commit())
	assert.Equal(t, Commit(), Commit())
}
