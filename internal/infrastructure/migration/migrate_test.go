package migration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMigrateLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := migrateLogger{logger: zap.New(core)}

	assert.True(t, l.Verbose())
	l.Printf("Finished 000002/u create_pokemons (read 1.2ms, ran 4.5ms)\n")

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "Finished 000002/u create_pokemons (read 1.2ms, ran 4.5ms)", logs.All()[0].Message)
}

func TestMigrateLogger_QuietAboveDebug(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.False(t, migrateLogger{logger: zap.New(core)}.Verbose())
}

func TestWrapClose(t *testing.T) {
	assert.NoError(t, wrapClose("source", nil))
	assert.EqualError(t, wrapClose("database", errors.New("conn busy")), "failed to close database: conn busy")
}
