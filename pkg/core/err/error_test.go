package errorc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCodeInheritedFromCause(t *testing.T) {
	inner := NewErrorBuilder("SSH").New("连接失败", errors.New("i/o timeout")).Connection()
	outer := New("巡检失败", inner)

	assert.Equal(t, ErrorCodeConnection, outer.ErrorCode)
	assert.True(t, IsCode(outer, ErrorCodeConnection))
	assert.Equal(t, "巡检失败", outer.Message())
	assert.Contains(t, outer.Error(), "i/o timeout")
}

func TestNotFoundDetection(t *testing.T) {
	err := New("服务器不存在", gorm.ErrRecordNotFound).DB()
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 404, err.HTTPStatus())

	wrapped := fmt.Errorf("query: %w", gorm.ErrRecordNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestParseError(t *testing.T) {
	assert.Nil(t, ParseError(nil))

	plain := ParseError(errors.New("boom"))
	assert.Equal(t, ErrorCodeUnknown, plain.ErrorCode)
	assert.Equal(t, "boom", plain.Message())

	e := New("", nil).ValidWithCtx()
	assert.Same(t, e, ParseError(fmt.Errorf("wrap: %w", e)))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 500, ErrorCodeDB.HTTPStatus())
	assert.Equal(t, 502, ErrorCodeThird.HTTPStatus())
	assert.Equal(t, 400, ErrorCodeConfig.HTTPStatus())
	assert.Equal(t, 422, ErrorCodeParse.HTTPStatus())
	assert.Equal(t, 500, (*ErrorCode)(nil).HTTPStatus())
}
