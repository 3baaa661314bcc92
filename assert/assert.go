package assert

import "github.com/stride-works/kinetic/kerror"

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(kerror.New(message, args...))
	}
}
