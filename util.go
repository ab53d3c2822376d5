package jitter

// No data struct
var ND = struct{}{}

// Aid for unexpected errors without recovery
func AssertNoErr[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Recover from error - assume default value
func AssumeOnErr[T any](f func() (T, error), defVal T) T {
	val, err := f()
	if err != nil {
		print(err.Error())
		return defVal
	}
	return val
}
