package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalRun_DefaultModel(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "eval", "run")
	require.NoError(t, err)

	assert.Equal(t, []string{"baseline"}, ts.evaluations.evaluated)
	assert.Contains(t, out, "Evaluation of baseline (version v2)")
	assert.Contains(t, out, "[Training] 3 judgments")
	assert.Contains(t, out, "rating 0    mean percentile  40.00  (1)")
	assert.Contains(t, out, "rating 1    mean percentile  92.50  (2)")
	assert.Contains(t, out, "related partners of 2 nodes: mean best rank 1.50, mean worst rank 4.00")
	assert.Contains(t, out, "[Testing] 0 judgments")
}

func TestEvalRun_NamedModel(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "eval", "run", "experimental")
	require.NoError(t, err)
	assert.Equal(t, []string{"experimental"}, ts.evaluations.evaluated)
}

func TestEvalRun_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.evaluations.err = errors.New("artifact unreadable")

	_, err := execute(t, "eval", "run")
	assert.ErrorContains(t, err, "evaluating baseline: artifact unreadable")
}

func TestEvalShow_NotEvaluated(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "eval", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Model baseline has not been evaluated yet. Run: alignpro eval run baseline")
}

func TestEvalShow_Latest(t *testing.T) {
	ts := setupTestServices(t)
	ts.evaluations.latest = testEvaluation("baseline")

	out, err := execute(t, "eval", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"model": "baseline"`)
}
