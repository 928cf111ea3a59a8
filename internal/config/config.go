package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "leaf-server"

	// DefaultFilename 실행 인자로 설정 파일 경로가 주어지지 않았을 때 읽는 파일입니다.
	DefaultFilename = AppName + ".json"

	// DefaultDotEnvFilename 환경 변수를 보충하기 위해 읽는 .env 파일입니다. 없으면 건너뜁니다.
	DefaultDotEnvFilename = ".env"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	// 이중 언더스코어(__)는 계층 구분자로 해석됩니다. 예: LEAF_STORE__DRIVER -> store.driver
	EnvPrefix = "LEAF_"
)

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 AppConfig 를 생성합니다.
//
// 우선순위(낮음 -> 높음): 기본값, 설정 파일, .env 파일, 환경 변수
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값
	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. 설정 파일 (주석과 후행 쉼표를 허용하는 JSON)
	if err := k.Load(file.Provider(filename), newHuJSONParser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. .env 파일 (이미 설정된 환경 변수는 덮어쓰지 않음)
	if err := godotenv.Load(DefaultDotEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("환경 변수 파일 로드 중 오류가 발생했습니다: '%s'", DefaultDotEnvFilename))
	}

	// 4. 환경 변수
	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 5. 구조체 변환 (정의되지 않은 키는 오류)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &appConfig,
			TagName:          "json",
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 6. 유효성 검사
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// normalizeEnvKey 환경 변수 이름을 koanf 키 경로로 변환합니다.
// 예: LEAF_SEGMENT__WAIT_SLEEP -> segment.wait_sleep
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
