package main

import (
	"log"
	"path/filepath"
	"runtime"
	"strings"

	sysmemory "github.com/pbnjay/memory"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/sneh-ach/findangular/internal/reduce"
	"github.com/sneh-ach/findangular/internal/resources"
)

type startupField struct {
	name  string
	value string
}

func logStartupReport(cfg AppConfig, configPath string, mgr *resources.Manager, records, workers int) {
	totalMem := sysmemory.TotalMemory()
	freeMem := sysmemory.FreeMemory()

	kernel := strings.TrimSpace(kernelVersion())
	if kernel == "" {
		kernel = "unknown"
	}

	platform := "unknown"
	if info, err := host.Info(); err == nil && info.Platform != "" {
		platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	}
	physicalCores := "unknown"
	if n, err := cpu.Counts(false); err == nil {
		physicalCores = formatCount(int64(n))
	}

	log.Printf("INFO startup initialization report")

	logInfoSection("System", []startupField{
		{name: "os name", value: runtime.GOOS},
		{name: "platform", value: platform},
		{name: "kernel version", value: kernel},
		{name: "go version", value: runtime.Version()},
		{name: "cpu architecture", value: runtime.GOARCH},
		{name: "physical cpu cores", value: physicalCores},
		{name: "logical cpu cores", value: formatCount(int64(runtime.NumCPU()))},
		{name: "gomaxprocs", value: formatCount(int64(runtime.GOMAXPROCS(0)))},
		{name: "total system memory", value: formatBytes(totalMem)},
		{name: "available system memory", value: formatBytes(freeMem)},
	})

	inputPath := absoluteOrOriginal(cfg.Input.Path)
	inputFields := []startupField{
		{name: "catalog path", value: inputPath},
		{name: "records loaded", value: formatCount(int64(records))},
		{name: "record cap", value: capSummary(cfg.Input.MaxRecords)},
		{name: "config file", value: absoluteOrOriginal(configPath)},
	}
	if freeDisk, err := diskFreeBytes(filepath.Dir(inputPath)); err != nil {
		inputFields = append(inputFields, startupField{name: "free disk space", value: "unavailable (" + err.Error() + ")"})
	} else {
		inputFields = append(inputFields, startupField{name: "free disk space", value: formatBytes(freeDisk)})
	}
	logInfoSection("Input", inputFields)

	logInfoSection("Compute", []startupField{
		{name: "worker threads", value: formatCount(int64(workers))},
		{name: "pairs to evaluate", value: formatCount(int64(reduce.PairCount(records)))},
		{name: "memory budget", value: formatBytes(mgr.Budget())},
	})
}

func logInfoSection(section string, fields []startupField) {
	log.Printf("INFO [%s]", section)
	for _, field := range fields {
		log.Printf("INFO   %-28s %s", field.name+":", field.value)
	}
}

func capSummary(maxRecords int) string {
	if maxRecords <= 0 {
		return "unlimited"
	}
	return formatCount(int64(maxRecords))
}

func absoluteOrOriginal(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
