package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"firestige.xyz/netproc/internal/core"
)

type mockAccountant struct {
	mock.Mock
}

func (m *mockAccountant) AccountBytes(port string, bytes int, isSource bool) {
	m.Called(port, bytes, isSource)
}

func TestEmitSourceLocal(t *testing.T) {
	acc := new(mockAccountant)
	acc.On("AccountBytes", "12345", 28, true).Return().Once()

	n := NewEmitter(acc).Emit(core.SourceLocal, 12345, 53, 28)

	assert.Equal(t, 1, n)
	acc.AssertExpectations(t)
	acc.AssertNotCalled(t, "AccountBytes", "53", mock.Anything, mock.Anything)
}

func TestEmitDestLocal(t *testing.T) {
	acc := new(mockAccountant)
	acc.On("AccountBytes", "8080", 512, false).Return().Once()

	n := NewEmitter(acc).Emit(core.DestLocal, 40000, 8080, 512)

	assert.Equal(t, 1, n)
	acc.AssertExpectations(t)
}

func TestEmitBothLocal(t *testing.T) {
	acc := new(mockAccountant)
	acc.On("AccountBytes", "5000", 40, true).Return().Once()
	acc.On("AccountBytes", "5001", 40, false).Return().Once()

	n := NewEmitter(acc).Emit(core.BothLocal, 5000, 5001, 40)

	assert.Equal(t, 2, n)
	acc.AssertExpectations(t)
	acc.AssertNumberOfCalls(t, "AccountBytes", 2)
}

func TestEmitNoneLocal(t *testing.T) {
	acc := new(mockAccountant)

	n := NewEmitter(acc).Emit(core.NoneLocal, 1, 2, 100)

	assert.Equal(t, 0, n)
	acc.AssertNotCalled(t, "AccountBytes", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmitNegativeBytesSuppressed(t *testing.T) {
	for _, class := range []core.Classification{core.SourceLocal, core.DestLocal, core.BothLocal, core.NoneLocal} {
		acc := new(mockAccountant)

		n := NewEmitter(acc).Emit(class, 1, 2, -4)

		assert.Equal(t, 0, n, class.String())
		acc.AssertNotCalled(t, "AccountBytes", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestEmitZeroBytes(t *testing.T) {
	acc := new(mockAccountant)
	acc.On("AccountBytes", "443", 0, true).Return().Once()

	n := NewEmitter(acc).Emit(core.SourceLocal, 443, 50000, 0)

	assert.Equal(t, 1, n)
	acc.AssertExpectations(t)
}

func TestEventsIdempotent(t *testing.T) {
	first := Events(core.BothLocal, 5000, 5001, 40)
	second := Events(core.BothLocal, 5000, 5001, 40)

	assert.Equal(t, first, second)
	assert.Equal(t, []core.TrafficEvent{
		{Port: "5000", Bytes: 40, IsSource: true},
		{Port: "5001", Bytes: 40, IsSource: false},
	}, first)
}

func TestPortKey(t *testing.T) {
	assert.Equal(t, "0", PortKey(0))
	assert.Equal(t, "53", PortKey(53))
	assert.Equal(t, "65535", PortKey(65535))
}
