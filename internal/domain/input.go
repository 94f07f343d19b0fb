package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

type inputKind uint8

const (
	kindAbsent inputKind = iota
	kindList
	kindText
	kindNumber
	kindTime
	kindInvalid
)

var jsonNull = []byte("null")

// ErrTechStackShape techStack 既不是字符串数组也不是字符串
var ErrTechStackShape = errors.New("techStack must be a list of strings or a comma-separated string")

// TechStackInput techStack 入参：string[] | "a, b" 两种形态
type TechStackInput struct {
	kind inputKind
	list []string
	text string
}

func TechStackList(items ...string) TechStackInput {
	return TechStackInput{kind: kindList, list: append([]string(nil), items...)}
}

func TechStackText(s string) TechStackInput { return TechStackInput{kind: kindText, text: s} }

func (t TechStackInput) IsSet() bool { return t.kind != kindAbsent }

func (t *TechStackInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*t = TechStackInput{}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = TechStackInput{kind: kindList, list: list}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TechStackInput{kind: kindText, text: s}
		return nil
	}
	// 形态不对不在解码阶段报错，交给校验统一汇总
	*t = TechStackInput{kind: kindInvalid}
	return nil
}

func (t TechStackInput) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case kindList:
		if t.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.list)
	case kindText:
		return json.Marshal(t.text)
	default:
		return jsonNull, nil
	}
}

// NormalizeTechStack 归一化为有序列表：逐项 trim，丢弃空项，保留顺序与重复
func NormalizeTechStack(in TechStackInput) ([]string, error) {
	var raw []string
	switch in.kind {
	case kindAbsent:
		return []string{}, nil
	case kindList:
		raw = in.list
	case kindText:
		raw = strings.Split(in.text, ",")
	default:
		return nil, ErrTechStackShape
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// NumberInput 数字入参：JSON number 或数字字符串
type NumberInput struct {
	kind  inputKind
	value float64
}

func Number(v float64) NumberInput { return NumberInput{kind: kindNumber, value: v} }

func (n NumberInput) IsSet() bool { return n.kind != kindAbsent }

// Value ok=false 表示缺失或形态非法
func (n NumberInput) Value() (float64, bool) { return n.value, n.kind == kindNumber }

func (n NumberInput) Invalid() bool { return n.kind == kindInvalid }

func (n *NumberInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*n = NumberInput{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*n = NumberInput{}
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = Number(f)
			return nil
		}
	}
	*n = NumberInput{kind: kindInvalid}
	return nil
}

func (n NumberInput) MarshalJSON() ([]byte, error) {
	if n.kind != kindNumber {
		return jsonNull, nil
	}
	return json.Marshal(n.value)
}

const dateOnly = "2006-01-02"

// DateInput 日期入参：RFC 3339 或 YYYY-MM-DD
type DateInput struct {
	kind  inputKind
	value time.Time
}

func Date(t time.Time) DateInput { return DateInput{kind: kindTime, value: t} }

func (d DateInput) IsSet() bool { return d.kind != kindAbsent }

func (d DateInput) Value() (time.Time, bool) { return d.value, d.kind == kindTime }

func (d DateInput) Invalid() bool { return d.kind == kindInvalid }

func (d *DateInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*d = DateInput{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = DateInput{kind: kindInvalid}
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = DateInput{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, dateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t.UTC())
			return nil
		}
	}
	*d = DateInput{kind: kindInvalid}
	return nil
}

func (d DateInput) MarshalJSON() ([]byte, error) {
	if d.kind != kindTime {
		return jsonNull, nil
	}
	return json.Marshal(d.value.UTC().Format(time.RFC3339Nano))
}
