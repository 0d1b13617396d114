package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTransport, KindOf(Transport(errors.New("refused"))))
	assert.Equal(t, KindProtocol, KindOf(fmt.Errorf("fetch: %w", Protocol(502))))
	assert.Equal(t, KindParse, KindOf(Parse(errors.New("bad"))))
	assert.Equal(t, KindApplication, KindOf(Application("no such order")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestTimeout(t *testing.T) {
	assert.True(t, Transport(fmt.Errorf("post: %w", timeoutErr{})).Timeout())
	assert.False(t, Transport(errors.New("refused")).Timeout())
	assert.False(t, Parse(timeoutErr{}).Timeout())
}

func TestDescribeIsDistinctPerKind(t *testing.T) {
	errs := []error{
		Transport(timeoutErr{}),
		Transport(errors.New("connection refused")),
		Protocol(500),
		Parse(errors.New("invalid character '<'")),
		Application("order not found"),
		Unknown(errors.New("boom")),
		errors.New("raw"),
	}
	seen := map[string]bool{}
	for _, err := range errs {
		msg := Describe(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
	assert.Contains(t, Describe(Protocol(500)), "500")
	assert.Contains(t, Describe(Application("order not found")), "order not found")
	assert.Contains(t, Describe(Transport(timeoutErr{})), "timed out")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	assert.ErrorIs(t, Parse(cause), cause)
	assert.Equal(t, "application error: nope", Application("nope").Error())
	assert.Equal(t, "protocol error: HTTP status 404", Protocol(404).Error())
}
