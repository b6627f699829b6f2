package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goforj/godump"
	"github.com/tklauser/go-sysconf"
)

//
// TRON/TROFF tracing and the STATS command (spec.md's supplemented
// features).  Grounded directly in teacher's g.traceDump godump.Dump
// calls and utils.go's getCPUInfo/formatCPUTime/printCpuUsage CPU
// accounting, which reads /proc/self/stat ticks via go-sysconf.
//

func traceStatement(st *node) {
	godump.Dump(st)
}

func initClock() {
	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo(1)
}

// cmdStats prints elapsed wall time, accumulated CPU time, and the
// count of statements executed so far this process.

func cmdStats(w writer) {
	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo(1)

	printWrite(w, fmt.Sprintf("ELAPSED: %s  CPU: user %s / sys %s  STATEMENTS: %d",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime),
		s.numStatements))
	printNewline(w)
}

func formatCPUTime(t int64) string {
	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t %= 3600
	}
	if t >= 60 {
		m = t / 60
		t %= 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

func getCPUInfo(divisor int64) (int64, int64) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0
	}
	if divisor != 0 {
		clktck /= divisor
	}
	if clktck == 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}
	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}
