package config

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/pkg/cronx"
	"github.com/darkkaiser/leaf-server/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// newValidator 커스텀 규칙이 등록된 Validator 인스턴스를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 에러 메시지에 Go 필드명 대신 JSON 키 이름(예: listen_port)이 표시되도록 한다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"cors_origin": func(fl validator.FieldLevel) bool {
			return validation.ValidateCORSOrigin(fl.Field().String()) == nil
		},
		"cron_spec": func(fl validator.FieldLevel) bool {
			return cronx.Validate(fl.Field().String()) == nil
		},
		"leaf_tag": func(fl validator.FieldLevel) bool {
			return validation.ValidateTag(fl.Field().String()) == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

// checkStruct 구조체를 태그 규칙에 따라 검증하고, 첫 번째 위반 사항을 사용자 친화적인 에러로 변환합니다.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	firstErr := validationErrors[0]

	switch firstErr.StructField() {
	case "ListenPort":
		return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
	case "TLSCertFile", "TLSKeyFile":
		switch firstErr.Tag() {
		case "required_if":
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("TLS 서버 활성화 시 %s 설정은 필수입니다", firstErr.Field()))
		case "file":
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 파일(%s)을 찾을 수 없습니다: '%v'", firstErr.Field(), firstErr.Value()))
		}
	case "Path":
		if firstErr.Tag() == "required_unless" {
			return apperrors.New(apperrors.InvalidInput, "memory 이외의 저장소 드라이버는 저장 경로(path) 설정이 필수입니다")
		}
	}

	switch firstErr.Tag() {
	case "oneof":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s 값('%v')은 다음 중 하나여야 합니다: %s", contextName, firstErr.Field(), firstErr.Value(), firstErr.Param()))
	case "unique":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s 내에 중복된 %s가 존재합니다 (설정 값을 확인해주세요)", contextName, firstErr.Field()))
	case "cors_origin":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", firstErr.Value()))
	case "cron_spec":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s cron 표현식이 올바르지 않습니다: '%v'", contextName, firstErr.Field(), firstErr.Value()))
	case "leaf_tag":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("태그 형식이 올바르지 않습니다: '%v' (허용: 영문, 숫자, '_', '-', '.')", firstErr.Value()))
	}

	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
}
