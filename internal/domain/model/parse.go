package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/remonster/internal/domain/colormath"
)

// ParseAnalysisResult decodes and shape-checks an analysis response body.
// The result is either complete and valid or rejected as a whole with an
// error wrapping ErrInvalidShape; there is no partially populated result.
//
// Shape rules: rainbow_vector is a string; rainbow_vector_lab is an object
// with numeric L, a and b; cmyk_vector is an array of exactly four numbers;
// dominant_emotions is an object of numbers; strategy is a string. Every
// number must be finite.
func ParseAnalysisResult(body []byte) (AnalysisResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return AnalysisResult{}, shapeError("body is not a JSON object: " + err.Error())
	}
	if fields == nil {
		return AnalysisResult{}, shapeError("body is null")
	}

	var res AnalysisResult
	var err error

	if res.RainbowHex, err = decodeString(fields, "rainbow_vector"); err != nil {
		return AnalysisResult{}, err
	}
	if res.RainbowLab, err = decodeLab(fields["rainbow_vector_lab"]); err != nil {
		return AnalysisResult{}, err
	}
	if res.CMYK, err = decodeCMYK(fields["cmyk_vector"]); err != nil {
		return AnalysisResult{}, err
	}
	if res.DominantEmotions, err = decodeEmotions(fields["dominant_emotions"]); err != nil {
		return AnalysisResult{}, err
	}
	if res.Strategy, err = decodeString(fields, "strategy"); err != nil {
		return AnalysisResult{}, err
	}

	if err := res.Validate(); err != nil {
		return AnalysisResult{}, err
	}
	return res, nil
}

// jsonKind returns the first significant byte of a raw value, or 0 when absent.
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isNumber(raw json.RawMessage) bool {
	k := jsonKind(raw)
	return k == '-' || (k >= '0' && k <= '9')
}

func decodeString(fields map[string]json.RawMessage, key string) (string, error) {
	raw := fields[key]
	if jsonKind(raw) != '"' {
		return "", shapeError(key + " must be a string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", shapeError(key + ": " + err.Error())
	}
	return s, nil
}

func decodeNumber(raw json.RawMessage, path string) (float64, error) {
	if !isNumber(raw) {
		return 0, shapeError(path + " must be a number")
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, shapeError(path + ": " + err.Error())
	}
	return v, nil
}

func decodeObject(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	if jsonKind(raw) != '{' {
		return nil, shapeError(path + " must be an object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, shapeError(path + ": " + err.Error())
	}
	return obj, nil
}

func decodeLab(raw json.RawMessage) (lab colormath.Lab, err error) {
	obj, err := decodeObject(raw, "rainbow_vector_lab")
	if err != nil {
		return lab, err
	}
	if lab.L, err = decodeNumber(obj["L"], "rainbow_vector_lab.L"); err != nil {
		return lab, err
	}
	if lab.A, err = decodeNumber(obj["a"], "rainbow_vector_lab.a"); err != nil {
		return lab, err
	}
	if lab.B, err = decodeNumber(obj["b"], "rainbow_vector_lab.b"); err != nil {
		return lab, err
	}
	return lab, nil
}

func decodeCMYK(raw json.RawMessage) (CMYKVector, error) {
	var v CMYKVector
	if jsonKind(raw) != '[' {
		return v, shapeError("cmyk_vector must be an array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return v, shapeError("cmyk_vector: " + err.Error())
	}
	if len(items) != len(v) {
		return v, shapeError(fmt.Sprintf("cmyk_vector must have %d entries, got %d", len(v), len(items)))
	}
	for i, item := range items {
		n, err := decodeNumber(item, fmt.Sprintf("cmyk_vector[%d]", i))
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}

func decodeEmotions(raw json.RawMessage) (map[string]float64, error) {
	obj, err := decodeObject(raw, "dominant_emotions")
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(obj))
	for name, item := range obj {
		n, err := decodeNumber(item, "dominant_emotions."+name)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}
