package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, TEXT, MapExtToFormat(".TXT"))
	assert.Equal(t, TEXT, MapExtToFormat("text"))
	assert.Equal(t, MARKDOWN, MapExtToFormat("md"))
	assert.Empty(t, MapExtToFormat("pdf"))
	assert.Empty(t, MapExtToFormat(SidecarExt))
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusQueued.IsTerminal())
	assert.False(t, JobStatusRunning.IsTerminal())
	for _, s := range []JobStatus{JobStatusNoSignal, JobStatusInvalid, JobStatusValid, JobStatusFailed} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.Len(t, StatusStrings(), 6)
}

func TestJobStatusValid(t *testing.T) {
	assert.True(t, JobStatusValid.Valid())
	assert.True(t, JobStatus("NO_SIGNAL").Valid())
	assert.False(t, JobStatus("valid").Valid())
	assert.False(t, JobStatus("").Valid())
}
