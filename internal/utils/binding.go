package utils

import (
	"strings"
	"unicode/utf8"

	"astrapix-server/internal/consts"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingValidators 向 gin 的校验引擎注册自定义 tag。
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("otp", validateOTPField); err != nil {
		return err
	}
	return v.RegisterValidation("prompt", validatePromptField)
}

func validateOTPField(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return len(code) == consts.OTPLength && digitsPattern.MatchString(code)
}

func validatePromptField(fl validator.FieldLevel) bool {
	prompt := strings.TrimSpace(fl.Field().String())
	return prompt != "" && utf8.RuneCountInString(prompt) <= consts.MaxPromptRunes
}
