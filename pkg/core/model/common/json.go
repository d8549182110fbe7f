package common

import (
	"database/sql/driver"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type JSON map[string]interface{}

// 实现 sql.Scanner 接口，Scan 将 value 扫描至 JSON
func (j *JSON) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil || bytes == nil {
		*j = nil
		return err
	}

	result := make(map[string]interface{})
	err = json.Unmarshal(bytes, &result)
	*j = result
	return err
}

// 实现 driver.Valuer 接口，Value 返回 json value
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	return string(b), err
}

// JSONValue 任意结构的 JSON 列，保持切片元素顺序
type JSONValue[T any] struct {
	Data T
}

func NewJSONValue[T any](v T) JSONValue[T] {
	return JSONValue[T]{Data: v}
}

func (j *JSONValue[T]) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil || bytes == nil {
		return err
	}
	return json.Unmarshal(bytes, &j.Data)
}

func (j JSONValue[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	return string(b), err
}

func (j JSONValue[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONValue[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("Failed to unmarshal JSON value: %v", value)
	}
}
