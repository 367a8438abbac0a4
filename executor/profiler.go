/* ccnfwd - CCNx Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package executor

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/named-data/ccnfwd/core"
)

// Profiler writes the CPU, memory and block profiles requested on the command line.
type Profiler struct {
	config  *core.Config
	cpuFile *os.File
	block   *pprof.Profile
}

func NewProfiler(config *core.Config) *Profiler {
	return &Profiler{config: config}
}

func (p *Profiler) String() string {
	return "Profiler"
}

// Start begins CPU profiling and enables block profiling if requested.
func (p *Profiler) Start() error {
	if p.config.Core.CpuProfile != "" {
		f, err := os.Create(p.config.Core.CpuProfile)
		if err != nil {
			return fmt.Errorf("unable to open output file for CPU profile: %w", err)
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("unable to start CPU profile: %w", err)
		}
		p.cpuFile = f
		core.LogInfo(p, "Profiling CPU - outputting to ", p.config.Core.CpuProfile)
	}

	if p.config.Core.BlockProfile != "" {
		core.LogInfo(p, "Profiling blocking operations - outputting to ", p.config.Core.BlockProfile)
		runtime.SetBlockProfileRate(1)
		p.block = pprof.Lookup("block")
	}
	return nil
}

// Stop writes the block and memory profiles and ends CPU profiling.
func (p *Profiler) Stop() {
	if p.block != nil {
		blockProfileFile, err := os.Create(p.config.Core.BlockProfile)
		if err != nil {
			core.LogError(p, "Unable to open output file for block profile: ", err)
		} else {
			if err := p.block.WriteTo(blockProfileFile, 0); err != nil {
				core.LogError(p, "Unable to write block profile: ", err)
			}
			blockProfileFile.Close()
		}
		runtime.SetBlockProfileRate(0)
		p.block = nil
	}

	if p.config.Core.MemProfile != "" {
		memProfileFile, err := os.Create(p.config.Core.MemProfile)
		if err != nil {
			core.LogError(p, "Unable to open output file for memory profile: ", err)
		} else {
			core.LogInfo(p, "Profiling memory - outputting to ", p.config.Core.MemProfile)
			runtime.GC()
			if err := pprof.WriteHeapProfile(memProfileFile); err != nil {
				core.LogError(p, "Unable to write memory profile: ", err)
			}
			memProfileFile.Close()
		}
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
	}
}
