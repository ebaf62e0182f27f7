package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(opts ...Option) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromCore(core, opts...), logs
}

func TestRedactsSensitiveFields(t *testing.T) {
	log, logs := observed()
	log.With("service", "Notifier").Info("sent",
		"authorization", "Bearer abc",
		"email", "brand@example.com",
		"actor_id", "7c0e",
		"link", "/collaborations/1",
		"blob", "aaaaaaaaaaaa.bbbbbbbbbbbb.cccc",
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Notifier", fields["service"])
	assert.Equal(t, redacted, fields["authorization"])
	assert.Equal(t, redacted, fields["email"])
	assert.Equal(t, redacted, fields["blob"])
	assert.Equal(t, "/collaborations/1", fields["link"])
	assert.Regexp(t, `^hash:[0-9a-f]{12}$`, fields["actor_id"])
}

func TestHashDependsOnSalt(t *testing.T) {
	a := (&redactor{salt: "one"}).hash("user-1")
	b := (&redactor{salt: "two"}).hash("user-1")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, (&redactor{salt: "one"}).hash("user-1"))
	assert.Empty(t, (&redactor{}).hash(nil))
}

func TestRedactionCanBeDisabled(t *testing.T) {
	log, logs := observed(WithRedaction(false, ""))
	log.Warn("raw", "password", "hunter2")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "hunter2", fields["password"])
}

func TestOddFieldCountKeepsTrailingValue(t *testing.T) {
	out := (&redactor{}).fields([]interface{}{"secret", "x", "orphan"})
	assert.Equal(t, []interface{}{"secret", redacted, "orphan"}, out)
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "test", "development", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		l.Sync()
	}
	Nop().Info("discarded")
}
