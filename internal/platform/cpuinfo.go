package platform

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

const cpuInfoPath = "/proc/cpuinfo"

// CPUInfo returns /proc/cpuinfo as a key-value map. Keys are lower-cased
// and trimmed; for duplicate keys the first one wins. Returns an empty map
// on any read failure.
func CPUInfo() map[string]string {
	return readCPUInfo(cpuInfoPath)
}

func readCPUInfo(path string) map[string]string {
	rv := make(map[string]string)
	f, err := os.Open(path)
	if err != nil {
		return rv
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, dup := rv[key]; !dup {
			rv[key] = strings.TrimSpace(val)
		}
	}
	return rv
}

// ARMRevision extracts the ARM architecture revision from cpuinfo fields.
// Returns 0 when the revision cannot be determined.
func ARMRevision(info map[string]string) int {
	// Raspberry Pi reports "CPU architecture: 7" for an ARMv6 core; trust
	// the processor string over the architecture field there.
	if proc := info["processor"]; strings.Contains(proc, "ARMv6") {
		return 6
	}
	arch := info["cpu architecture"]
	if arch == "" {
		return 0
	}
	// field looks like "7" or "5TEJ"; only the leading digit matters
	ver, err := strconv.Atoi(arch[:1])
	if err != nil {
		return 0
	}
	return ver
}
