package check

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racereplay/log"
)

func run(args ...string) (string, error) {
	cmd := NewCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(log.AddToContext(context.Background(), log.NewNop()))
	return out.String(), err
}

func TestCheckValid(t *testing.T) {
	out, err := run("-f", "../../loader/testdata/race.json")
	assert.NoError(t, err)
	assert.Contains(t, out, "ok (2 drivers)")
}

func TestCheckViolations(t *testing.T) {
	out, err := run("-f", "../../loader/testdata/unsorted.json")
	assert.ErrorContains(t, err, "6 violations")
	assert.Contains(t, out, "unsortedTime")
	assert.Contains(t, out, "duplicateGridEntry")
}

func TestCheckMissingFlag(t *testing.T) {
	_, err := run()
	assert.Error(t, err)
}
