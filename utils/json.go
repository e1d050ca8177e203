package utils

import "encoding/json"

// MarshalJSON is a helper to convert a struct to a JSON string, used for the cache
func MarshalJSON(v interface{}) (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// UnmarshalJSON decodes a JSON string produced by MarshalJSON
func UnmarshalJSON(data string, v interface{}) error {
	return json.Unmarshal([]byte(data), v)
}
