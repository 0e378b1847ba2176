//go:build !unix && !windows

package fault

func osKind(error) (Kind, bool) { return Other, false }
