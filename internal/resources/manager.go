package resources

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/pbnjay/memory"
)

const (
	defaultMemoryBudgetPercent = 80
	minMemoryBudgetPercent     = 10
	maxMemoryBudgetPercent     = 95

	// One catalog record is an id plus two float64 coordinates; the load
	// path grows the backing slice by appending, so budget twice the final
	// footprint for the transient copies.
	bytesPerRecord     = 24
	loadHeadroomFactor = 2
)

// Config controls worker-count and memory planning for a reduction run.
type Config struct {
	MaxWorkers          int
	MemoryBudgetPercent int
}

// Manager plans a single reduction run against the memory actually
// available to the process: physical RAM capped by any cgroup limit.
type Manager struct {
	cfg               Config
	memoryBudgetBytes uint64
}

func DefaultConfig() Config {
	return NormalizeConfig(Config{})
}

func NormalizeConfig(cfg Config) Config {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers()
	}
	if cfg.MemoryBudgetPercent <= 0 {
		cfg.MemoryBudgetPercent = defaultMemoryBudgetPercent
	}
	if cfg.MemoryBudgetPercent < minMemoryBudgetPercent {
		cfg.MemoryBudgetPercent = minMemoryBudgetPercent
	}
	if cfg.MemoryBudgetPercent > maxMemoryBudgetPercent {
		cfg.MemoryBudgetPercent = maxMemoryBudgetPercent
	}
	return cfg
}

func NewManager(cfg Config) *Manager {
	cfg = NormalizeConfig(cfg)

	totalRAM := memory.TotalMemory()
	if cgroupLimit, ok := readCgroupMemoryLimitBytes(); ok && (totalRAM == 0 || cgroupLimit < totalRAM) {
		totalRAM = cgroupLimit
	}
	if totalRAM == 0 {
		totalRAM = runtimeMemoryFallbackBytes()
	}

	budget := totalRAM * uint64(cfg.MemoryBudgetPercent) / 100
	if budget == 0 {
		budget = totalRAM * defaultMemoryBudgetPercent / 100
	}
	debug.SetMemoryLimit(int64(budget))

	return &Manager{cfg: cfg, memoryBudgetBytes: budget}
}

func (m *Manager) Config() Config {
	if m == nil {
		return DefaultConfig()
	}
	return m.cfg
}

// Budget returns the memory budget in bytes.
func (m *Manager) Budget() uint64 {
	if m == nil {
		return 0
	}
	return m.memoryBudgetBytes
}

// ResolveWorkers maps a requested thread count to the count actually used:
// an explicit positive request wins, zero means "pick a default from the
// CPU count". Negative requests are the caller's configuration error and
// are passed through for the reducer to reject.
func (m *Manager) ResolveWorkers(requested int) int {
	if requested != 0 {
		return requested
	}
	if m == nil {
		return defaultMaxWorkers()
	}
	return m.cfg.MaxWorkers
}

// CheckCatalogAllocation reports whether a catalog of the given record
// count fits the memory budget, before any allocation is attempted.
func (m *Manager) CheckCatalogAllocation(records int) error {
	if m == nil || records <= 0 {
		return nil
	}
	need := uint64(records) * bytesPerRecord * loadHeadroomFactor
	if need > m.memoryBudgetBytes {
		return fmt.Errorf("catalog of %d records needs ~%d bytes, exceeds memory budget of %d bytes", records, need, m.memoryBudgetBytes)
	}
	return nil
}

func runtimeMemoryFallbackBytes() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.Sys > 0 {
		return ms.Sys * 4
	}
	return 8 << 30
}

func readCgroupMemoryLimitBytes() (uint64, bool) {
	if runtime.GOOS != "linux" {
		return 0, false
	}
	if limit, ok := parseMemoryLimitFile("/sys/fs/cgroup/memory.max"); ok {
		return limit, true
	}
	limit, ok := parseMemoryLimitFile("/sys/fs/cgroup/memory/memory.limit_in_bytes")
	if !ok {
		return 0, false
	}
	// v1 unlimited sentinel can be an extreme value; ignore it.
	if limit > (1 << 62) {
		return 0, false
	}
	return limit, true
}

func parseMemoryLimitFile(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	value := strings.TrimSpace(string(data))
	if value == "" || value == "max" {
		return 0, false
	}
	limit, err := strconv.ParseUint(value, 10, 64)
	if err != nil || limit == 0 {
		return 0, false
	}
	return limit, true
}

func defaultMaxWorkers() int {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > 32 {
		workers = 32
	}
	return workers
}
