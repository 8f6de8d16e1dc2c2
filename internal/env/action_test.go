package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	a, err := ParseAction([]byte(`{"action":"patch_step","step":"Condition_Check","field":"inputs.expression","value":"@equals(A,B,'xlsx')"}`))
	require.NoError(t, err)
	assert.Equal(t, PatchExpression("Condition_Check", "@equals(A,B,'xlsx')"), a)

	a, err = ParseAction([]byte(`{"action":"patch_step","step":"S","field":"inputs.expression","value":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", a.Value)
}

func TestParseAction_Rejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown kind":  `{"action":"rename_step","step":"S","field":"inputs.expression","value":"v"}`,
		"missing value": `{"action":"patch_step","step":"S","field":"inputs.expression"}`,
		"missing kind":  `{"step":"S","field":"inputs.expression","value":"v"}`,
		"not json":      `patch it`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseAction([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidAction)
		})
	}
}

func TestAction_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, PatchExpression("S", "v").Validate())
	assert.ErrorIs(t, Action{Kind: ActionPatchStep, Step: "S"}.Validate(), ErrInvalidAction)
	assert.ErrorIs(t, Action{}.Validate(), ErrInvalidAction)
}
