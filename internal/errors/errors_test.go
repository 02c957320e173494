package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_FormatsTypeAndCause(t *testing.T) {
	err := Wrap(TypeConfig, "bad table", stderrors.New("missing EUR"))
	assert.Equal(t, "[CONFIG_ERROR] bad table: missing EUR", err.Error())

	err = New(TypeNotFound, "nothing here")
	assert.Equal(t, "[NOT_FOUND] nothing here", err.Error())
}

func TestIsType_SeesThroughWrapping(t *testing.T) {
	base := InvalidInput(stderrors.New(`unsupported commodity "platinum"`))
	wrapped := fmt.Errorf("lookup: %w", base)

	assert.True(t, IsType(wrapped, TypeInvalidInput))
	assert.False(t, IsType(wrapped, TypeInternal))
	assert.False(t, IsType(stderrors.New("plain"), TypeInvalidInput))
}

func TestReason_PrefersCause(t *testing.T) {
	cause := stderrors.New(`unsupported currency "GBP"`)
	assert.Equal(t, `unsupported currency "GBP"`, Reason(InvalidInput(cause)))
	assert.Equal(t, "price not found: gold/GBP", Reason(NotFound("price", "gold/GBP")))
	assert.Equal(t, "plain", Reason(stderrors.New("plain")))
	assert.Equal(t, "", Reason(nil))
}

func TestCollect_JoinsOnOneLine(t *testing.T) {
	acc := Collect(nil, stderrors.New(`unsupported commodity "platinum"`))
	acc = Collect(acc, stderrors.New(`unsupported currency "GBP"`))

	assert.Len(t, acc.Errors, 2)
	assert.Equal(t, `unsupported commodity "platinum"; unsupported currency "GBP"`, acc.Error())
	assert.Equal(t, acc.Error(), Reason(InvalidInput(acc.ErrorOrNil())))
}

func TestWithContext_InitializesMap(t *testing.T) {
	err := New(TypeInternal, "boom").WithContext("commodity", "gold")
	assert.Equal(t, "gold", err.Context["commodity"])
	assert.True(t, err.Is(TypeInternal))
}
