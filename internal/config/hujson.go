package config

import (
	"github.com/knadh/koanf/parsers/json"
	"github.com/tailscale/hujson"
)

// huJSONParser 주석(//, /* */)과 후행 쉼표를 허용하는 JSON 파서입니다.
// 입력을 표준 JSON 으로 변환한 뒤 koanf 의 JSON 파서에 위임합니다.
type huJSONParser struct {
	json *json.JSON
}

func newHuJSONParser() *huJSONParser {
	return &huJSONParser{json: json.Parser()}
}

func (p *huJSONParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	standard, err := hujson.Standardize(b)
	if err != nil {
		return nil, err
	}
	return p.json.Unmarshal(standard)
}

func (p *huJSONParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return p.json.Marshal(m)
}
