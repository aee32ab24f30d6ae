package env

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekisa-team/topology/internal/envvar"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Production, Parse("production"))
	assert.Equal(t, Production, Parse(" PROD "))
	assert.Equal(t, Development, Parse("development"))
	assert.Equal(t, Development, Parse(""))
	assert.Equal(t, Development, Parse("staging"))
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envvar.TopologyEnv, "production")
	assert.True(t, FromEnv().IsProduction())

	t.Setenv(envvar.TopologyEnv, "")
	assert.False(t, FromEnv().IsProduction())
}
