package parser

import (
	"errors"
	"fmt"
)

// ErrorKind 錯誤類型
type ErrorKind string

const (
	// KindUsage 參數錯誤 (日期格式、群組大小、刪除筆數...)
	KindUsage ErrorKind = "USAGE"
	// KindInput 輸入檔案錯誤 (找不到檔案、JSON 結構不符)
	KindInput ErrorKind = "INPUT"
)

// 輸入 JSON 結構錯誤
var (
	ErrNotObject         = errors.New("輸入 JSON 必須是物件")
	ErrSurgeriesMissing  = errors.New("輸入 JSON 缺少 surgeries 欄位")
	ErrSurgeriesNotArray = errors.New("surgeries 欄位必須是陣列")
)

// Error 解析器錯誤
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewUsageError 建立參數錯誤
func NewUsageError(message string, err error) *Error {
	return &Error{Kind: KindUsage, Message: message, Err: err}
}

// NewInputError 建立輸入錯誤
func NewInputError(message string, err error) *Error {
	return &Error{Kind: KindInput, Message: message, Err: err}
}

// KindOf 取得錯誤類型，非 *Error 一律視為輸入錯誤
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInput
}
