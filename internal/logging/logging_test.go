package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInitWriter_Levels(t *testing.T) {
	var buf bytes.Buffer

	InitWriter(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Str("case_id", "c1").Msg("episode finished")
	assert.False(t, DebugEnabled())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "episode finished")
	assert.Contains(t, buf.String(), "case_id=c1")

	buf.Reset()
	InitWriter(&buf, true)
	t.Cleanup(Discard)
	log.Debug().Msg("visible")
	assert.True(t, DebugEnabled())
	assert.Contains(t, buf.String(), "visible")
}
