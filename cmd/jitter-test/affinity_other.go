//go:build !linux

package main

import "errors"

func pinToCPU(cpu int) error {
	return errors.New("CPU pinning is not supported on this OS")
}
