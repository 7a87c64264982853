package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func Path(p string) Field {
	return String("path", p)
}

func NodeName(name string) Field {
	return String("node", name)
}

func Term(id string) Field {
	return String("term", id)
}

func Species(name string) Field {
	return String("species", name)
}

func Count(n int) Field {
	return Int("count", n)
}

func Rows(n int) Field {
	return Int("rows", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
