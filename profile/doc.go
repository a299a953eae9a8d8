// Package profile provides optional runtime profiling for acdform.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Config.Start] returns a no-op and [Modes] is empty.
//
// # Modes
//
// With the tag, [Modes] lists allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread, and trace. A profiler is configured with functional
// options:
//
//	p := profile.New(profile.WithMode("cpu"), profile.WithPath(dir)).Start()
//	defer p.Stop()
//
// Profile data is written under the given directory with names matching the
// mode (cpu.pprof, mem.pprof, ...) and read with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/acdform/pprof/cpu.pprof
//
// Interrupts are left to the program: the profile is flushed only by Stop.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
