package utils

import "encoding/json"

// Int64sToString converts []int64 to a JSON string (safe for a text DB column).
func Int64sToString(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// StringToInt64s converts a DB string back to []int64.
func StringToInt64s(s string) []int64 {
	if s == "" || s == "[]" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return []int64{}
	}
	return ids
}
