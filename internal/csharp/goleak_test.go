package csharp

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the parse workers started by Analyze all exit.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
