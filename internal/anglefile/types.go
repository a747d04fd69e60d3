package anglefile

import "euler-quat/internal/mathutil"

// Entry holds one named angle triple read from an input file.
type Entry struct {
	Name string
	mathutil.Angles
}
