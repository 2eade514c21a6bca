package utils

func Contains[V comparable](arr []V, e V) bool {
	for _, v := range arr {
		if v == e {
			return true
		}
	}

	return false
}
