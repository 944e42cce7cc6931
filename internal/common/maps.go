package common

import "golang.org/x/exp/maps"

func MapKeys[K comparable, V any](m map[K]V) []K {
	return maps.Keys(m)
}
