package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator 參數驗證器 (英文錯誤訊息)
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New 建立驗證器
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 錯誤訊息使用旗標名稱 (flag 標籤)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" && name != "-" {
			return "-" + name
		}
		return fld.Name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// Struct 驗證結構，回傳第一個錯誤的可讀訊息
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fe.Translate(v.translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}
