package utils

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/robfig/cron/v3"
)

// 自定义校验规则的中文提示，{0} 为字段名，{1} 为参数
var customErrorMessages = map[string]string{
	"required":       "{0}不能为空",
	"oneof":          "{0}必须是[{1}]中的一个",
	"cron5":          "{0}必须是5段式cron表达式",
	"hostname_or_ip": "{0}必须是有效的主机名或IP",
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var (
	sharedOnce  sync.Once
	sharedValid *validator.Validate
	sharedTrans ut.Translator
)

// Validate 使用进程内共享的验证器，返回拼接后的中文提示
func Validate(data interface{}) (string, error) {
	sharedOnce.Do(func() {
		sharedValid, sharedTrans = NewValidator()
	})
	return ValidateStruct(sharedValid, sharedTrans, data)
}

// NewValidator 创建一个支持中文错误信息的验证器
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	// 字段名优先取 comment 标签，其次 json 标签
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("comment"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("cron5", func(fl validator.FieldLevel) bool {
		expr := strings.TrimSpace(fl.Field().String())
		if expr == "" {
			return true
		}
		_, err := cronParser.Parse(expr)
		return err == nil
	})
	_ = validate.RegisterValidation("hostname_or_ip", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		if err := validate.Var(v, "ip"); err == nil {
			return true
		}
		return validate.Var(v, "hostname_rfc1123") == nil
	})

	zhTrans := zh.New()
	uni := ut.New(zhTrans, zhTrans)
	trans, _ := uni.GetTranslator("zh")

	_ = zh_translations.RegisterDefaultTranslations(validate, trans)

	for tag, msg := range customErrorMessages {
		registerCustomTranslation(validate, trans, tag, msg)
	}

	return validate, trans
}

func registerCustomTranslation(validate *validator.Validate, trans ut.Translator, tag string, message string) {
	_ = validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, err := ut.T(tag, fe.Field(), fe.Param())
		if err != nil {
			return fe.Field() + "校验失败"
		}
		return t
	})
}

// ValidateStruct 验证结构体并返回中文错误信息
func ValidateStruct(validate *validator.Validate, trans ut.Translator, s interface{}) (string, error) {
	err := validate.Struct(s)
	if err == nil {
		return "", nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error(), err
	}
	errMessages := make([]string, 0, len(errs))
	for _, e := range errs {
		errMessages = append(errMessages, e.Translate(trans))
	}

	return strings.Join(errMessages, "; "), err
}
