package tasks

// Хелперы для извлечения типизированных значений из params.
// Параметры приходят из JSON, поэтому числа — float64, а map — map[string]any.

// paramString извлекает строковое значение параметра.
func paramString(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// paramInt извлекает числовое значение параметра.
func paramInt(params map[string]any, key string) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// paramBool извлекает булево значение параметра.
func paramBool(params map[string]any, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// paramStringSlice извлекает список строк из параметра.
func paramStringSlice(params map[string]any, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}

	switch raw := v.(type) {
	case []string:
		return raw
	case []any:
		result := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

// paramMapString извлекает map[string]string из параметра.
func paramMapString(params map[string]any, key string) map[string]string {
	v, ok := params[key]
	if !ok {
		return nil
	}

	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		result := make(map[string]string, len(m))
		for k, val := range m {
			if s, ok := val.(string); ok {
				result[k] = s
			}
		}
		return result
	default:
		return nil
	}
}
