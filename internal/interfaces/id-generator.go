package interfaces

// IDGenerator hands out time-ordered numeric ids.
type IDGenerator interface {
	Next() int64
}
